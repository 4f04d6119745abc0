package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/AP-047/hvac-assistant/loader/internal"
	"github.com/AP-047/hvac-assistant/loader/service"
	metastore "github.com/AP-047/hvac-assistant/loader/store"
	"github.com/AP-047/hvac-assistant/model"
	"github.com/AP-047/hvac-assistant/store"
	"github.com/AP-047/hvac-assistant/types"
)

func init() {
	loadEnvVariables()
}

func main() {
	watch := flag.Bool("watch", false, "keep watching the source directory instead of running one batch")
	flag.Parse()

	cfg, err := types.LoadLoaderConfig()
	if err != nil {
		log.Fatal(err)
	}
	indexCfg, err := types.LoadIndexConfig()
	if err != nil {
		log.Fatal(err)
	}
	embedCfg, err := types.LoadEmbedConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	embedder := model.NewEmbedder(embedCfg)
	if err := embedder.VerifyDimension(ctx, indexCfg.VectorDim); err != nil {
		log.Fatal(err)
	}

	index, err := store.NewQdrantStore(indexCfg)
	if err != nil {
		log.Fatal("error connecting to index:", err)
	}
	defer index.Close()

	extractor := internal.NewConverterExtractor(cfg.ConverterURL, cfg.CropTop, cfg.CropBottom)
	meta := metastore.NewMetadataStore(cfg.MetadataPath)

	svc := service.New(cfg, index, embedder, extractor, meta, indexCfg.VectorDim)

	if !*watch {
		if err := svc.Run(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	done := make(chan struct{})
	go func() {
		svc.Watch(ctx)
		close(done)
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, stopping loader...")
	cancel()
	<-done
}

func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment as-is")
	}
}
