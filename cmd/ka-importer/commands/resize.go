package commands

import (
	"fmt"
	"kaimporter/lib/imageutil"
	"kaimporter/lib/serviceutil"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var resizeType *string
var resizeOut *string

func init() {
	resizeType = resizeCmd.Flags().StringP("type", "t", imageutil.Full.Name, "The variant to produce, full or thumb.")
	resizeOut = resizeCmd.Flags().String("out", "resized", "The directory to write resized images to.")
	rootCmd.AddCommand(resizeCmd)
}

var resizeCmd = &cobra.Command{
	Use:   "resize <image...> [--type full|thumb]",
	Short: "Resizes local images the same way scraped colorway images are.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		variant, err := imageutil.ParseVariant(*resizeType)
		if err != nil {
			serviceutil.Fatal("invalid --type", err)
		}
		err = os.MkdirAll(*resizeOut, 0777)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}

		failed := 0
		for _, path := range args {
			// ResizeFile already logs the failing path
			out, err := imageutil.ResizeFile(path, variant)
			if err != nil {
				failed++
				continue
			}
			dest := resizedPath(*resizeOut, path, variant)
			err = os.WriteFile(dest, out, 0644)
			if err != nil {
				slog.Error("failed to write resized image", "path", dest, "err", err)
				failed++
				continue
			}
			slog.Info("resized", "from", path, "to", dest)
		}

		if failed > 0 {
			serviceutil.Fatal("resize finished with failures", fmt.Errorf("%d of %d images failed", failed, len(args)))
		}
	},
}

func resizedPath(dir, path string, v imageutil.Variant) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf("%s-%s.jpg", base, v.Name))
}
