// Copyright 2025 ContractHub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/contracthub/retrieval"
	"github.com/contracthub/retrieval/ai"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/ingestion"
)

func main() {
	// Optional .env for embedding endpoint settings; absence is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "contracthub",
		Usage: "Multi-tenant contract document retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database (directory for badger, file for sqlite)",
				Value:   "./contracts_db",
				EnvVars: []string{"CONTRACTHUB_DB"},
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Storage backend (badger, sqlite)",
				Value:   "badger",
				EnvVars: []string{"CONTRACTHUB_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "OpenAI-compatible embedding service host URL (hash embedder if unset)",
				EnvVars: []string{"CONTRACTHUB_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"CONTRACTHUB_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "signup",
				Usage:  "Register a new tenant",
				Action: signupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Unique tenant username",
						Required: true,
					},
				},
			},
			{
				Name:   "contracts",
				Usage:  "List the tenant's documents, newest first",
				Action: contractsCommand,
				Flags:  []cli.Flag{tenantFlag()},
			},
			{
				Name:   "upload",
				Usage:  "Ingest a parsed document from a chunks JSON file",
				Action: uploadCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of {text, metadata} chunks",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "filename",
						Usage: "Document filename (defaults to the chunk file's base name)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Document status label",
						Value: core.StatusActive,
					},
					&cli.StringFlag{
						Name:  "risk",
						Usage: "Document risk label",
						Value: core.RiskLow,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the tenant's documents",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.Uint64Flag{
						Name:  "doc",
						Usage: "Restrict retrieval to one document ID",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Update a document's status and risk labels",
				Action: statusCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.Uint64Flag{
						Name:     "doc",
						Usage:    "Document ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "status",
						Usage:    "New status label",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "risk",
						Usage: "New risk label",
						Value: core.RiskLow,
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete a document and all of its chunks",
				Action: deleteCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.Uint64Flag{
						Name:     "doc",
						Usage:    "Document ID",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func tenantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tenant",
		Aliases:  []string{"t"},
		Usage:    "Tenant username",
		Required: true,
		EnvVars:  []string{"CONTRACTHUB_TENANT"},
	}
}

// openService builds the service from the global flags.
func openService(c *cli.Context) (*retrieval.Service, error) {
	opts := []retrieval.ServiceOption{
		retrieval.WithBackend(retrieval.Backend(c.String("backend"))),
	}

	if model := c.String("embedding-model"); model != "" {
		config := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(model),
		)
		opts = append(opts, retrieval.WithOpenAIEmbedder(config))
	}

	return retrieval.Open(c.String("db"), opts...)
}

func resolveTenant(ctx context.Context, service *retrieval.Service, c *cli.Context) (*core.Tenant, error) {
	tenant, err := service.FindTenant(ctx, c.String("tenant"))
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", c.String("tenant"), err)
	}
	return tenant, nil
}

func signupCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := service.CreateTenant(c.Context, c.String("username"))
	if err != nil {
		return err
	}

	fmt.Printf("Created tenant %q (id %d)\n", tenant.Username, tenant.Id)
	return nil
}

func contractsCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := resolveTenant(c.Context, service, c)
	if err != nil {
		return err
	}

	docs, err := service.ListDocuments(c.Context, tenant.Id)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("No documents")
		return nil
	}
	for _, doc := range docs {
		expires := "-"
		if doc.ExpiresAt != nil {
			expires = doc.ExpiresAt.Format("2006-01-02")
		}
		fmt.Printf("%-6d %-30s uploaded=%s expires=%s status=%q risk=%q\n",
			doc.Id, doc.Filename, doc.UploadedAt.Format("2006-01-02"), expires, doc.Status, doc.Risk)
	}
	return nil
}

// chunkFile is the upload input format: the output of whatever parsed the
// original document.
type chunkFile []struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func uploadCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	var parsed chunkFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parsing chunk file: %w", err)
	}
	if len(parsed) == 0 {
		return fmt.Errorf("chunk file %s holds no chunks", c.String("file"))
	}

	chunks := make([]ingestion.ParsedChunk, len(parsed))
	for i, pc := range parsed {
		chunks[i] = ingestion.ParsedChunk{Text: pc.Text, Metadata: pc.Metadata}
	}

	filename := c.String("filename")
	if filename == "" {
		filename = filepath.Base(c.String("file"))
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := resolveTenant(c.Context, service, c)
	if err != nil {
		return err
	}

	doc, err := service.Ingest(c.Context, tenant.Id, filename, chunks, &ingestion.IngestOptions{
		Status: c.String("status"),
		Risk:   c.String("risk"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %q as document %d (%d chunks)\n", filename, doc.Id, len(chunks))
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := resolveTenant(c.Context, service, c)
	if err != nil {
		return err
	}

	result, err := service.Ask(c.Context, tenant.Id, question, core.ID(c.Uint64("doc")))
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	fmt.Println()
	for i, hit := range result.Chunks {
		fmt.Printf("%d. [%.2f] %s (doc %d, chunk %s)\n",
			i+1, hit.Confidence, hit.Chunk.Text, hit.Chunk.DocumentId, hit.Chunk.Id)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := resolveTenant(c.Context, service, c)
	if err != nil {
		return err
	}

	docID := core.ID(c.Uint64("doc"))
	if err := service.UpdateDocumentStatus(c.Context, tenant.Id, docID, c.String("status"), c.String("risk")); err != nil {
		return err
	}
	fmt.Printf("Updated document %d\n", docID)
	return nil
}

func deleteCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := resolveTenant(c.Context, service, c)
	if err != nil {
		return err
	}

	docID := core.ID(c.Uint64("doc"))
	if err := service.DeleteDocument(c.Context, tenant.Id, docID); err != nil {
		return err
	}
	fmt.Printf("Deleted document %d\n", docID)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
