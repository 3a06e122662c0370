// Package attachments uploads receipts and photos straight to the asset
// host using a signature issued by the inventory server.
package attachments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/logging"
	"github.com/dmitrijs2005/mitteie/internal/netx"
)

// DefaultBaseURL is the upload API root of the asset host.
const DefaultBaseURL = "https://api.cloudinary.com/v1_1"

const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

var ErrNoURL = errors.New("asset host returned no url")

// SignatureAPI issues upload signatures.
type SignatureAPI interface {
	UploadSignature(ctx context.Context, resourceType string) (models.UploadSignature, error)
}

// Uploader performs signed direct uploads.
type Uploader struct {
	api     SignatureAPI
	states  auth.StateReader
	http    *http.Client
	baseURL string
	log     logging.Logger
}

func NewUploader(api SignatureAPI, states auth.StateReader, hc *http.Client, baseURL string, log logging.Logger) *Uploader {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Uploader{api: api, states: states, http: hc, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// ResourceTypeFor picks the asset class: PDFs are stored raw, everything
// else as an image.
func ResourceTypeFor(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ResourceRaw
	}
	return ResourceImage
}

// UploadFile uploads the file at path.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return u.Upload(ctx, filepath.Base(path), f)
}

// Upload sends r under filename and returns the public https URL.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, err := auth.RequireUser(u.states); err != nil {
		return "", err
	}

	rt := ResourceTypeFor(filename)
	sig, err := u.api.UploadSignature(ctx, rt)
	if err != nil {
		return "", fmt.Errorf("get upload signature: %w", err)
	}
	if sig.ResourceType != "" {
		rt = sig.ResourceType
	}

	endpoint := fmt.Sprintf("%s/%s/%s/upload", u.baseURL, sig.CloudName, rt)
	fields := map[string]string{
		"api_key":   sig.APIKey,
		"timestamp": strconv.FormatInt(sig.Timestamp, 10),
		"signature": sig.Signature,
		"folder":    sig.Folder,
	}

	body, err := netx.UploadMultipart(ctx, u.http, endpoint, fields, "file", filename, r)
	if err != nil {
		return "", err
	}

	var res models.UploadResult
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if res.SecureURL == "" {
		return "", ErrNoURL
	}
	u.log.Info(ctx, "attachment uploaded", "resource_type", rt, "bytes", res.Bytes)
	return res.SecureURL, nil
}
