package place

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/maruizc/arrienda-host/internal/api"
)

// Uploader turns a batch of local file references into a single multipart
// request against a listing's photo sub-resource. It never retries; the
// repository's caller decides when to run the photo step again.
type Uploader struct {
	api *api.Client
}

func NewUploader(client *api.Client) *Uploader {
	return &Uploader{api: client}
}

// Upload posts all fileRefs as repeated foto[] parts. The part's media
// type comes from the reference's extension alone; file contents are
// streamed, never inspected.
func (u *Uploader) Upload(ctx context.Context, listingID int, fileRefs []string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, ref := range fileRefs {
		if err := writePart(mw, ref); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/lugares/%d/foto", listingID)
	_, err := u.api.PostMultipart(ctx, path, &buf, mw.FormDataContentType())
	return err
}

func writePart(mw *multipart.Writer, ref string) error {
	filename := filepath.Base(ref)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="foto[]"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", mediaTypeFor(filename))

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}

	f, err := os.Open(ref)
	if err != nil {
		return fmt.Errorf("open photo %s: %w", ref, err)
	}
	defer f.Close()

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read photo %s: %w", ref, err)
	}
	return nil
}

// mediaTypeFor infers a media type from the filename's extension,
// falling back to a generic binary type for anything unrecognized.
func mediaTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
