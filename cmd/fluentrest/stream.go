package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

var streamAsync bool

var streamCmd = &cobra.Command{
	Use:   "stream [final-path]",
	Short: "Print the objects of a JSON array as they arrive",
	Long: `Stream a JSON array and print one result envelope per object as
soon as it has been received. An envelope describing the failure is
printed if the stream breaks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		p := newPrinter(os.Stdout)
		if streamAsync {
			as := rest.StreamAsync[map[string]any](cmd.Context(), s.req, finalPath(args))
			defer as.Stop()
			for r := range as.ResultChan() {
				if err := emit(p, r); err != nil {
					return err
				}
			}
			return p.Err()
		}

		for r := range rest.Stream[map[string]any](cmd.Context(), s.req, finalPath(args)) {
			if err := emit(p, r); err != nil {
				return err
			}
		}
		return p.Err()
	},
}

func init() {
	streamCmd.Flags().BoolVar(&streamAsync, "async", false, "decode in a separate goroutine")
}
