// Command contigflow-server provides a REST API for contig assembly.
//
// Usage:
//
//	contigflow-server [options]
//
// Options:
//
//	--addr      Address to listen on (default: :8080)
//	--config    YAML settings file
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/contigflow/api/handlers"
	"github.com/aria-lang/contigflow/api/middleware"
	"github.com/aria-lang/contigflow/internal/config"
	"github.com/aria-lang/contigflow/pkg/contigflow"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "contigflow-server",
	Short:        "Serve contig assembly over HTTP",
	Version:      contigflow.Version(),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to a YAML settings file")
	rootCmd.Flags().String("addr", ":8080", "address to listen on")
	rootCmd.Flags().Int("max-reads", 0, "maximum reads per assembly request")

	viper.BindPFlag("server.addr", rootCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.max-reads", rootCmd.Flags().Lookup("max-reads"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRouter(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/assemble", handlers.NewAssembler(cfg.AssemblyOptions(), cfg.Server.MaxReads))

		r.Route("/alignment", func(r chi.Router) {
			r.Post("/overlap", handlers.OverlapHandler)
		})

		r.Route("/kmer", func(r chi.Router) {
			r.Post("/distance", handlers.KMerDistanceHandler)
		})

		r.Route("/quality", func(r chi.Router) {
			r.Post("/clip", handlers.QualityClipHandler)
		})
	})

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})

	return r
}

func serve(cfg *config.Config) error {
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Printf("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v", err)
		}
		close(done)
	}()

	log.Printf("contigflow API server starting on %s", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-done
	log.Printf("Server stopped")
	return nil
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>contigflow API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>contigflow API</h1>
    <p>A REST API for building contigs from sequencing reads.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/assemble</code>
        <p>Assemble a set of reads into contigs.</p>
        <pre>{"reads": [{"name": "r1", "sequence": "GATTACA...", "quality": "IIII...", "type": "sanger"}]}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/overlap</code>
        <p>Overlap two sequences in both orientations.</p>
        <pre>{"sequence1": "GATTACAGGCTT", "sequence2": "CAGGCTTACG", "min_overlap": 5}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/kmer/distance</code>
        <p>Jaccard distance of the canonical k-mer sets of two sequences.</p>
        <pre>{"sequence1": "ATGATGATG", "sequence2": "ATGCTGATG", "k": 3}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/quality/clip</code>
        <p>Quality clip range of a Phred+33 quality string.</p>
        <pre>{"quality": "##IIIIIIII##", "min_length": 5}</pre>
    </div>
</body>
</html>`
