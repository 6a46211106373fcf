package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

var getRaw bool

var getCmd = &cobra.Command{
	Use:   "get [final-path]",
	Short: "Fetch one JSON value",
	Long: `Fetch one JSON value and print it in a result envelope. The final
path, if given, is appended to the endpoint path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		p := newPrinter(os.Stdout)
		if getRaw {
			err = emit(p, s.req.Get(cmd.Context(), finalPath(args)))
		} else {
			err = emit(p, rest.GetAs[any](cmd.Context(), s.req, finalPath(args)))
		}
		if err != nil {
			return err
		}
		return p.Err()
	},
}

func init() {
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "print the body as text instead of decoding it")
}

func finalPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
