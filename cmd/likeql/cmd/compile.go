package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/kyle-williams-1/likeql/config"
)

func newCompileCommand(opts *options) *cobra.Command {
	var format string

	compileCmd := &cobra.Command{
		Use:   "compile [query...]",
		Short: "Print the SQL condition or MongoDB filter for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.newParser()
			if err != nil {
				return err
			}
			query, err := readQuery(cmd, args)
			if err != nil {
				return err
			}

			if format == "" {
				format = string(parser.Config.Formatter)
			}
			switch config.FormatterType(format) {
			case config.FormatterSQL:
				filter, err := parser.Evaluate(query)
				if err != nil {
					return reportQueryError(cmd, query, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), filter)
			case config.FormatterMongo:
				doc, err := parser.EvaluateBSON(query)
				if err != nil {
					return reportQueryError(cmd, query, err)
				}
				out, err := bson.MarshalExtJSON(doc, false, false)
				if err != nil {
					return fmt.Errorf("failed to encode filter: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			default:
				return fmt.Errorf("unsupported format %q, want sql or mongo", format)
			}
			return nil
		},
	}

	compileCmd.Flags().StringVar(&format, "format", "", "Output format: sql or mongo (default from config, else sql)")
	return compileCmd
}
