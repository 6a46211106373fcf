package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/pgiacomo69/FluentRestAdapter/internal/testserver"
)

var listenAddr string

var serveTestCmd = &cobra.Command{
	Use:   "serve-test",
	Short: "Run the test backend",
	Long: `Run a backend serving the endpoints used to try the client:

  GET /Test/NumbersStream/{max}?delay={ms}
  GET /Test/FinaUrlToDto/{id}
  GET /Test/MalformedJson
  GET /Test/HeadersToDto
      /Test/Echo
  GET /Test/TruncatedStream/{max}
  GET /Test/BadElementStream`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := klog.FromContext(ctx)

		srv := &http.Server{
			Addr:              listenAddr,
			Handler:           testserver.New(log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("serving test backend", "addr", listenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveTestCmd.Flags().StringVar(&listenAddr, "listen", "localhost:5000", "address to listen on")
}
