package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/freadblangks/WoWee/internal/assets"
	"github.com/freadblangks/WoWee/internal/config"
)

//go:embed index.html
var indexHTML []byte

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	addr := flag.String("addr", "", "Listen address (default: :8080)")
	fps := flag.Int("fps", 30, "Frames streamed per second")

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <model.m2>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{ListenAddr: *addr})

	model, skin, err := assets.LoadModel(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Live Model Viewer\n")
	fmt.Printf("Model: %s (%d vertices, %d bones, %d sequences)\n",
		model.Name, len(model.Vertices), len(model.Bones), len(model.Sequences))
	fmt.Println("------------------------------------------------------------")

	viewer := NewViewer(model, skin)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", viewer.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go viewer.Run(*fps)

	log.Printf("Starting HTTP server on %s", cfg.ListenAddr)
	log.Printf("Viewer page: http://localhost%s/", cfg.ListenAddr)
	log.Printf("WebSocket endpoint: ws://localhost%s/ws", cfg.ListenAddr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
