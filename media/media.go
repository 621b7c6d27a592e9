// Package media stores images attached to posts. A stored image is
// referenced by the id returned from Save and served under /media/<id>.
package media

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
)

const MaxUploadSize = 5 * 1024 * 1024

var (
	ErrNotFound        = errors.New("media not found")
	ErrUnsupportedType = errors.New("unsupported image type, only JPEG, PNG and GIF are allowed")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type Storage interface {
	Save(ctx context.Context, r io.Reader) (id string, err error)
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
	// Delete removes a stored image; ErrNotFound when there is none.
	Delete(ctx context.Context, id string) error
}

// URL is the public path of a stored image, empty when there is none.
func URL(id string) string {
	if id == "" {
		return ""
	}
	return "/media/" + id
}

// sniff detects the image type from the content itself and returns a reader
// that still yields the full stream.
func sniff(r io.Reader) (contentType, ext string, body io.Reader, err error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", "", nil, err
	}
	contentType = http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", "", nil, ErrUnsupportedType
	}
	return contentType, ext, io.LimitReader(br, MaxUploadSize+1), nil
}
