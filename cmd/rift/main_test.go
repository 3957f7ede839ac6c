package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/rift/internal/config"
	"github.com/okian/rift/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			t.Setenv("RIFT_ADDR", ":8080")
			t.Setenv("RIFT_QUEUE_SIZE", "1000")
			t.Setenv("RIFT_WORKER_COUNT", "4")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the address is blanked", func() {
			t.Setenv("RIFT_ADDR", "")

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestWiring(t *testing.T) {
	convey.Convey("Given a wired service", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.DatabasePath = ":memory:"
		cfg.WorkerCount = 2

		svc, err := newService(cfg, newSource(cfg), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		mux := newMux(ctx, svc)

		convey.Convey("When the docs are requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))

			convey.Convey("Then they are served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When stats are requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))

			var stats map[string]any
			convey.So(json.Unmarshal(w.Body.Bytes(), &stats), convey.ShouldBeNil)

			convey.Convey("Then they reflect the configuration", func() {
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["workerCount"], convey.ShouldEqual, float64(2))
				convey.So(stats["nextRefresh"], convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When a webhook arrives without its parameters", func() {
			body := `{"result":{"parameters":{}}}`
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/champions/ranking", strings.NewReader(body)))

			convey.Convey("Then the assistant is told what is missing", func() {
				var out struct {
					Speech string `json:"speech"`
				}
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(json.Unmarshal(w.Body.Bytes(), &out), convey.ShouldBeNil)
				convey.So(out.Speech, convey.ShouldContainSubstring, "position")
			})
		})

		convey.Convey("When service metrics are published", func() {
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("When the metrics updater's context ends", func() {
			cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then it returns", func() {
				done := make(chan struct{})
				go func() {
					startServiceMetricsUpdater(cctx, svc)
					close(done)
				}()
				select {
				case <-done:
				case <-time.After(time.Second):
				}
				convey.So(cctx.Err(), convey.ShouldNotBeNil)
			})
		})
	})
}
