package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/services"
)

// Import merges the export file at path into the signed-in user's records.
// With dryRun the counts are reported but nothing is written.
func (a *App) Import(ctx context.Context, path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return a.fail(ctx, "import", err)
	}
	defer f.Close()

	res, err := a.imports.Import(ctx, a.userID, f, services.ImportOptions{DryRun: dryRun})
	if err != nil {
		return a.fail(ctx, "import", err)
	}

	if dryRun {
		fmt.Fprintln(a.out, "Dry run, nothing written.")
	}
	fmt.Fprintln(a.out, res.String())
	return nil
}

// Export writes the signed-in user's records as an export file, to the
// export directory or, with toS3, to the configured bucket.
func (a *App) Export(ctx context.Context, toS3 bool) error {
	sink := a.fileSink
	if toS3 {
		if a.s3Sink == nil {
			return a.fail(ctx, "export", errors.New("S3 export is not configured"))
		}
		sink = a.s3Sink
	}

	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return a.fail(ctx, "export", err)
	}

	location, err := a.exports.Export(ctx, *user, sink)
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	fmt.Fprintf(a.out, "Exported to %s\n", location)
	return nil
}
