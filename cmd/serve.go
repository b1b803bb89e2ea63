// Copyright 2026 The multipass Authors
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

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/steindani/multipass/internal/session"
	"github.com/steindani/multipass/internal/signer"
	"github.com/steindani/multipass/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API used by the pass builder UI",
	Long:  "Starts a local HTTP server holding scan sessions in memory. Sessions expire after serve.session-ttl of inactivity and are never written to disk.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	if err := vip.BindPFlag("serve.port", serveCmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	store := session.NewStore(cfg.Serve.SessionTTL)
	srv := web.NewServer(store, signer.New(cfg.Signer.URL, cfg.Signer.Token, cfg.Signer.Timeout))

	if cfg.Signer.URL == "" {
		fmt.Println("No signer.url configured, passes are returned as JSON for review")
	}
	fmt.Printf("Starting multipass at http://localhost:%d\n", cfg.Serve.Port)
	return srv.ListenAndServe(cmd.Context(), cfg.Serve.Port, sweepInterval(cfg.Serve.SessionTTL))
}

func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/2, time.Second)
}
