package main

import (
	"flag"
	"log"
	"net/http"

	"trashroute/pkg/concurrent"
	"trashroute/pkg/kv"
	"trashroute/pkg/osmparser"
	"trashroute/pkg/server/rest"
	"trashroute/pkg/server/rest/service"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "net/http/pprof"
)

var (
	listenAddr  = flag.String("listenaddr", ":5000", "server listen address")
	dataDir     = flag.String("datadir", "./trashroute-data", "badger job store directory")
	uploadsDir  = flag.String("uploadsdir", "./uploads", "uploaded osm extract directory")
	numWorkers  = flag.Int("workers", 2, "number of route generation workers")
	queueSize   = flag.Int("queue", 16, "pending job queue size")
	maxUploadMB = flag.Int64("maxuploadmb", 100, "maximum upload size in MB")
)

func main() {
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dataDir))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	store := kv.NewJobStore(db)
	pool := concurrent.NewWorkerPool(*numWorkers, *queueSize)
	defer pool.Stop()

	parser := osmparser.NewOsmParser()
	svc := service.NewRouteGenService(store, pool, parser, *uploadsDir, *maxUploadMB<<20)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	rest.RouteGenRouter(r, svc)

	log.Printf("trashroute engine listening on %s", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
