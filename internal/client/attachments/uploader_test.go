package attachments

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

type fakeSigner struct {
	calls    int
	lastType string
	sig      models.UploadSignature
	err      error
}

func (f *fakeSigner) UploadSignature(ctx context.Context, resourceType string) (models.UploadSignature, error) {
	f.calls++
	f.lastType = resourceType
	s := f.sig
	s.ResourceType = resourceType
	return s, f.err
}

type fixedState struct{ st auth.AuthState }

func (f fixedState) State() auth.AuthState { return f.st }

var signedIn = fixedState{auth.Authenticated(models.User{ID: "user_1"})}

func TestResourceTypeFor(t *testing.T) {
	assert.Equal(t, ResourceRaw, ResourceTypeFor("kvittering.PDF"))
	assert.Equal(t, ResourceImage, ResourceTypeFor("bilde.jpg"))
	assert.Equal(t, ResourceImage, ResourceTypeFor("noext"))
}

func TestUpload_SignedMultipart(t *testing.T) {
	var gotPath string
	var form map[string]string
	var fileBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		form = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			form[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		b, _ := io.ReadAll(f)
		fileBody = string(b)
		_, _ = io.WriteString(w, `{"secure_url":"https://res.example/demo/raw/upload/v1/k.pdf","bytes":3}`)
	}))
	defer ts.Close()

	signer := &fakeSigner{sig: models.UploadSignature{
		Signature: "sig", Timestamp: 1700000000, CloudName: "demo", APIKey: "key", Folder: "mitteie/user_1",
	}}
	u := NewUploader(signer, signedIn, ts.Client(), ts.URL+"/", nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "k.pdf")
	require.NoError(t, os.WriteFile(path, []byte("pdf"), 0o600))

	url, err := u.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://res.example/demo/raw/upload/v1/k.pdf", url)
	assert.Equal(t, "raw", signer.lastType)
	assert.Equal(t, "/demo/raw/upload", gotPath)
	assert.Equal(t, map[string]string{
		"api_key": "key", "timestamp": "1700000000", "signature": "sig", "folder": "mitteie/user_1",
	}, form)
	assert.Equal(t, "pdf", fileBody)
}

func TestUpload_RequiresAuth(t *testing.T) {
	signer := &fakeSigner{}
	u := NewUploader(signer, fixedState{auth.Anonymous()}, nil, "", nil)

	_, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
	require.ErrorIs(t, err, auth.ErrAuthRequired)
	assert.Zero(t, signer.calls)
	assert.Equal(t, DefaultBaseURL, u.baseURL)
}

func TestUpload_HostErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/image/") {
			_, _ = io.WriteString(w, `{}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid Signature"}}`)
	}))
	defer ts.Close()

	u := NewUploader(&fakeSigner{sig: models.UploadSignature{CloudName: "demo"}}, signedIn, ts.Client(), ts.URL, nil)

	_, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrNoURL)

	_, err = u.Upload(context.Background(), "a.pdf", strings.NewReader("x"))
	require.ErrorContains(t, err, "upload failed: 401")
}
