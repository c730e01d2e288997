package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-labeller/internal/extract"
)

func extractCmd(g *globalFlags) *cobra.Command {
	var imagesDir string
	var textMode string
	var includeData bool

	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract per-page text, images and tables as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.load(cmd)
			if err != nil {
				return err
			}
			opts := rt.cfg.ExtractOptions()
			if textMode != "" {
				opts.TextMode = extract.TextMode(textMode)
				if opts.TextMode != extract.TextPlain && opts.TextMode != extract.TextLayout {
					return fmt.Errorf("unknown text mode %q", textMode)
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := extract.New(opts, rt.logger).Extract(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			written := 0
			if imagesDir != "" {
				if written, err = extract.WriteImages(doc, imagesDir); err != nil {
					return err
				}
			}
			if !includeData {
				for i := range doc.Pages {
					for j := range doc.Pages[i].Images {
						doc.Pages[i].Images[j].Data = ""
					}
				}
			}

			res := struct {
				PageCount     int            `json:"page_count"`
				Stats         extract.Stats  `json:"stats"`
				Pages         []extract.Page `json:"pages"`
				ImagesWritten int            `json:"images_written,omitempty"`
			}{doc.PageCount, doc.Stats(), doc.Pages, written}
			b, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&imagesDir, "images-dir", "", "write accepted images as PNG files into this directory")
	cmd.Flags().StringVar(&textMode, "text-mode", "", "text extraction: plain|layout (default from config)")
	cmd.Flags().BoolVar(&includeData, "include-data", false, "include base64 image data in the JSON")
	return cmd
}
