package scan

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != ScanPath {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, `{"error":"No image provided"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "bill.jpg" || string(data) != "jpeg-bytes" {
			http.Error(w, `{"error":"unexpected upload"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientScanBill(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantItems int
		wantErr   error
	}{
		{
			name:      "items found",
			status:    http.StatusOK,
			body:      `{"items":[{"name":"Burger","price":12.5,"quantity":1},{"name":"Fries","price":4,"quantity":2,"assigned_to":["Alice"]}]}`,
			wantItems: 2,
		},
		{name: "empty items", status: http.StatusOK, body: `{"items":[]}`, wantErr: ErrNoItems},
		{name: "absent items", status: http.StatusOK, body: `{}`, wantErr: ErrNoItems},
		{name: "malformed json", status: http.StatusOK, body: `{"items":`, wantErr: ErrScanFailed},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"ocr crashed"}`, wantErr: ErrScanFailed},
		{name: "non-json error", status: http.StatusBadGateway, body: `bad gateway`, wantErr: ErrScanFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := scanServer(t, tt.status, tt.body)
			client := NewClient(srv.URL+"/", srv.Client())

			items, err := client.ScanBill(context.Background(), "bill.jpg", strings.NewReader("jpeg-bytes"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, items)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, tt.wantItems)
			for _, item := range items {
				assert.NotNil(t, item.AssignedTo)
			}
		})
	}
}

func TestClientScanBill_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).ScanBill(context.Background(), "bill.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrScanFailed)
	assert.Equal(t, Failed, OutcomeOf(err))
}

func TestClientScanBill_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, srv.Client()).ScanBill(ctx, "bill.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrScanFailed)
}

func TestScanResponseDefaultsAssignment(t *testing.T) {
	var resp scanResponse
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"name":"Tea","price":3,"quantity":1}]}`), &resp))
	assert.Nil(t, resp.Items[0].AssignedTo)
}
