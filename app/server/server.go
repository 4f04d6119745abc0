package server

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AP-047/hvac-assistant/app/agent"
	"github.com/AP-047/hvac-assistant/app/api"
	"github.com/AP-047/hvac-assistant/app/retrieval"
	"github.com/AP-047/hvac-assistant/model"
	"github.com/AP-047/hvac-assistant/store"
	"github.com/AP-047/hvac-assistant/types"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	logger     *slog.Logger
	app        *fiber.App
	index      *store.QdrantStore
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	if s.app != nil {
		_ = s.app.Shutdown()
	}
	if s.index != nil {
		_ = s.index.Close()
	}
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()

	indexCfg, err := types.LoadIndexConfig()
	if err != nil {
		log.Fatal(err)
	}
	embedCfg, err := types.LoadEmbedConfig()
	if err != nil {
		log.Fatal(err)
	}

	embedder := model.NewEmbedder(embedCfg)
	// Dimension mismatch between ingestion and query time is fatal here,
	// never surfaced per request.
	if err := embedder.VerifyDimension(ctx, indexCfg.VectorDim); err != nil {
		log.Fatal(err)
	}

	index, err := store.NewQdrantStore(indexCfg)
	if err != nil {
		log.Fatal("error connecting to index:", err)
	}
	s.index = index

	topK, _ := strconv.Atoi(os.Getenv("RETRIEVAL_TOP_K"))
	tokenBudget, _ := strconv.Atoi(os.Getenv("CONTEXT_TOKEN_BUDGET"))

	var (
		retriever      = retrieval.NewService(retrieval.NewDomainGate(), embedder, index, topK)
		synth          = agent.NewSynthesizer(tokenBudget)
		checkHandler   = api.NewCheckHandler(index)
		requestHandler = api.NewRequestHandler(retriever, synth)

		app   = fiber.New(config)
		check = app.Group("/check")
		apiv1 = app.Group("/api/v1")
	)
	s.app = app

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/request", requestHandler.HandleRequest)

	if err := app.Listen(s.listenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}
