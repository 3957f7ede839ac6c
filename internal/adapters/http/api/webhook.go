package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/rift/internal/domain/types"
	"github.com/okian/rift/pkg/logger"
	"github.com/okian/rift/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// webhookRequest is the envelope the voice platform posts; only the parsed
// parameters are read.
type webhookRequest[P any] struct {
	Result struct {
		Parameters P `json:"parameters"`
	} `json:"result"`
}

// webhook decodes the envelope, validates its parameters and answers with
// the query's sentence. Only an undecodable body is an HTTP error; every
// other failure is spoken back with 200.
func webhook[P any](x Explainer, query func(context.Context, P) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		ctx := r.Context()

		var req webhookRequest[P]
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
			metrics.RecordErrorByComponent("api", "decode")
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
			return
		}

		speech, err := "", checkParameters(req.Result.Parameters)
		if err == nil {
			speech, err = query(ctx, req.Result.Parameters)
		}
		if err != nil {
			metrics.RecordErrorByComponent("api", "query")
			logger.Get().Named("api").Debug(ctx, "query answered with an error", logger.String("path", r.URL.Path), logger.Error(err))
			speech = x.Explain(ctx, err)
		}
		writeJSON(w, http.StatusOK, types.Speech{Speech: speech})
	}
}
