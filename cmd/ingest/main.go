package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/config"
	"github.com/JaimeStill/tally/internal/infrastructure"
	"github.com/JaimeStill/tally/internal/ingestion"
	"github.com/JaimeStill/tally/internal/sourcefiles"
)

func main() {
	var (
		file       = flag.String("file", "", "Spreadsheet to upload and ingest (.xlsx, .xls, .csv)")
		ids        = flag.String("ids", "", "Comma-separated IDs of registered files to ingest")
		uploadedBy = flag.String("uploaded-by", "", "Account ID recorded as the uploader")
		register   = flag.Bool("register-only", false, "Register the file without ingesting it")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Overall time limit")
	)
	flag.Parse()

	if (*file == "") == (*ids == "") {
		fmt.Println("usage: ingest -file <path> [-uploaded-by <id>] [-register-only] | -ids <id,id,...>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}
	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		log.Fatal("infrastructure not ready")
	}

	logger := infra.Logger.With("module", "cli")
	db := infra.Database.Connection()

	files := sourcefiles.New(db, infra.Storage, logger, cfg.API.Pagination)
	sys := ingestion.New(
		files,
		ingestion.NewStore(db, cfg.Ingestion.ConflictRetries),
		cfg.Ingestion,
		logger,
	)

	ctx, cancel := context.WithTimeout(infra.Lifecycle.Context(), *timeout)
	defer cancel()

	var out any
	if *file != "" {
		resp, runErr := uploadFile(ctx, sys, *file, *uploadedBy, !*register)
		if resp != nil {
			out = resp
		}
		err = runErr
	} else {
		resp, runErr := ingestFiles(ctx, sys, *ids)
		if resp != nil {
			out = resp
		}
		err = runErr
	}

	if shutdownErr := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); shutdownErr != nil {
		logger.Error("shutdown failed", "error", shutdownErr)
	}

	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			logger.Error("write output failed", "error", encErr)
		}
	}
	if err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func uploadFile(
	ctx context.Context,
	sys ingestion.System,
	path, uploadedBy string,
	ingest bool,
) (*ingestion.UploadResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cmd := sourcefiles.CreateCommand{
		Data:        data,
		Filename:    filepath.Base(path),
		ContentType: ingestion.DetectContentType("", path, data),
	}
	if uploadedBy != "" {
		id, err := uuid.Parse(uploadedBy)
		if err != nil {
			return nil, fmt.Errorf("uploaded-by: %w", err)
		}
		cmd.UploadedBy = &id
	}

	sf, err := sys.Upload(ctx, cmd)
	if err != nil {
		return nil, err
	}

	resp := &ingestion.UploadResponse{File: sf}
	if !ingest {
		return resp, nil
	}

	result, err := sys.Ingest(ctx, sf.ID)
	if err != nil {
		return resp, err
	}
	resp.Result = result
	return resp, nil
}

func ingestFiles(ctx context.Context, sys ingestion.System, list string) (*ingestion.BatchResponse, error) {
	var fileIDs []uuid.UUID
	for part := range strings.SplitSeq(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("ids: %w", err)
		}
		fileIDs = append(fileIDs, id)
	}
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("ids: no file IDs given")
	}

	items := sys.IngestBatch(ctx, fileIDs)

	var failed int
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}

	resp := &ingestion.BatchResponse{Items: items}
	if failed > 0 {
		return resp, fmt.Errorf("%d of %d files failed", failed, len(items))
	}
	return resp, nil
}
