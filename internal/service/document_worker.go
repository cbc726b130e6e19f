package service

import (
	"context"
	"log"
	"sync"
	"time"

	"claimos/internal/port"
)

// DocumentWorkerConfig holds settings for the document processing worker.
type DocumentWorkerConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// DocumentWorker polls for queued documents and dispatches them through the
// trust pipeline.
type DocumentWorker struct {
	docRepo    port.ClaimDocumentRepository
	docService DocumentService
	cfg        DocumentWorkerConfig
	wg         sync.WaitGroup
}

// NewDocumentWorker creates a new DocumentWorker.
func NewDocumentWorker(docRepo port.ClaimDocumentRepository, docService DocumentService, cfg DocumentWorkerConfig) *DocumentWorker {
	return &DocumentWorker{
		docRepo:    docRepo,
		docService: docService,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight evaluations have finished.
func (w *DocumentWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("documentWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("documentWorker: shutting down, waiting for in-flight evaluations...")
			w.wg.Wait()
			log.Printf("documentWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimQueued(ctx, available, time.Now().UTC())
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("documentWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range docs {
				doc := docs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight evaluations complete even during shutdown.
					evalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("documentWorker: dispatching document %s (attempt %d)", doc.ID, doc.ProcessAttempts)
					w.docService.ProcessDocument(evalCtx, &doc, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
