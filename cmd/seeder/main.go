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


// Command seeder fills a database with sample contract documents for local
// development and demos.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/contracthub/retrieval"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/ingestion"
	"github.com/contracthub/retrieval/storage"
)

var (
	dbPath  = flag.String("db", "./contracts_db", "database path")
	backend = flag.String("backend", "badger", "storage backend (badger, sqlite)")
	tenant  = flag.String("tenant", "demo", "tenant username to seed")
)

// sampleDocuments are parsed contracts in the shape the ingestion pipeline
// expects from an upload.
var sampleDocuments = []struct {
	filename string
	status   string
	risk     string
	clauses  []string
}{
	{
		filename: "master-services-agreement.pdf",
		status:   core.StatusActive,
		risk:     core.RiskLow,
		clauses: []string{
			"Termination clause: Either party may terminate with 90 days’ notice.",
			"Payment terms: Net 30 from date of invoice.",
			"Governing law: State of Delaware.",
			"Assignment requires prior written consent of both parties.",
		},
	},
	{
		filename: "nda-2024.pdf",
		status:   core.StatusActive,
		risk:     core.RiskMedium,
		clauses: []string{
			"Confidential information excludes material already in the public domain.",
			"Obligations survive for three years after disclosure.",
			"Liability cap: Limited to 12 months’ fees.",
		},
	},
	{
		filename: "hosting-renewal.pdf",
		status:   core.StatusRenewalDue,
		risk:     core.RiskHigh,
		clauses: []string{
			"Renewal: Contract auto-renews for successive one-year terms unless cancelled.",
			"Service credits accrue at 5% per full hour of unscheduled downtime.",
			"Price escalation not to exceed 4% per renewal term.",
		},
	},
}

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	flag.Parse()

	service, err := retrieval.Open(*dbPath, retrieval.WithBackend(retrieval.Backend(*backend)))
	if err != nil {
		panic(err)
	}
	defer service.Close()

	ctx := context.Background()

	seedTenant, err := service.FindTenant(ctx, *tenant)
	if errors.Is(err, storage.ErrNotFound) {
		seedTenant, err = service.CreateTenant(ctx, *tenant)
	}
	if err != nil {
		panic(err)
	}

	for _, sample := range sampleDocuments {
		chunks := make([]ingestion.ParsedChunk, len(sample.clauses))
		for i, clause := range sample.clauses {
			chunks[i] = ingestion.ParsedChunk{Text: clause}
		}

		doc, err := service.Ingest(ctx, seedTenant.Id, sample.filename, chunks, &ingestion.IngestOptions{
			Status: sample.status,
			Risk:   sample.risk,
		})
		if err != nil {
			panic(err)
		}
		slog.Info("seeded document", "doc", doc.Id, "filename", sample.filename, "chunks", len(chunks))
	}
}
