package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	fields "Lobefield/internal/calc/fields"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fields/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h := &Handler{Constants: fields.Default()}
	h.Import(rec, req)
	return rec
}

func TestImport_PerRowIsolation(t *testing.T) {
	csv := `Source,alpha,gamma1,gamma2,v0,s_v0,l,b,w,D_l,Sf
good-1,0.75,10,1e5,1400,1.0,50,20,20,200,1.0
bad,0.75,10,10,1400,1.0,50,20,20,200,1.0
good-2,0.80,10,1e5,1400,0.8,45,18,18,210,1.0
`
	rec := upload(t, "lobes.csv", csv)
	require.Equal(t, http.StatusOK, rec.Code)

	var res ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Results, 3)
	assert.NotNil(t, res.Results[0].Result)
	assert.Nil(t, res.Results[1].Result)
	assert.NotEmpty(t, res.Results[1].Error)
	assert.NotNil(t, res.Results[2].Result)
}

func TestImport_MissingColumns(t *testing.T) {
	rec := upload(t, "lobes.csv", "Source,alpha\nA,0.7\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var res struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Missing, "gamma1")
	assert.Contains(t, res.Missing, "Sf")
	assert.Contains(t, res.Error, "missing columns")
}

func TestImport_NoFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/fields/import", nil)
	rec := httptest.NewRecorder()
	h := &Handler{Constants: fields.Default()}
	h.Import(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
