/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/lmteixeira17/blood-exams/cmd"
)

func main() {
	// Optional .env for local development; real env vars take precedence.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "blood-exams",
		Usage: "Blood Exams - Lab Result Dashboard",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdMigrate,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
