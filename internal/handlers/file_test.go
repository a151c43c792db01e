package handlers

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	"github.com/complytrack/compliance-tracker-api/internal/models"
)

func (s *APITestSuite) upload(taskID uint64, user, name string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, taskPath(taskID, "/files"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(user))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) TestUploadAndFetchFile() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.upload(task.ID, "tax", "challan.pdf", []byte("%PDF-1.4"))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var file dto.TaskFileDTO
	s.decode(w, &file)
	s.Equal("challan.pdf", file.FileName)
	s.Equal(int64(8), file.FileSize)
	s.Equal("User tax", file.UploadedByUserName)

	w = s.request(http.MethodGet, taskPath(task.ID, fmt.Sprintf("/files/%d", file.ID)), "tax", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal("%PDF-1.4", w.Body.String())

	w = s.request(http.MethodGet, taskPath(task.ID, ""), "tax", nil)
	var got dto.TaskDTO
	s.decode(w, &got)
	s.Require().Len(got.Files, 1)
	s.Equal(file.ID, got.Files[0].ID)
}

func (s *APITestSuite) TestFetchContentDisposition() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	for _, name := range []string{"GST return (Q1).pdf", "état financier.pdf"} {
		w := s.upload(task.ID, "tax", name, []byte("%PDF-1.4"))
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		var file dto.TaskFileDTO
		s.decode(w, &file)

		w = s.request(http.MethodGet, taskPath(task.ID, fmt.Sprintf("/files/%d", file.ID)), "tax", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		header := w.Header().Get("Content-Disposition")
		s.NotContains(header, `\u`)
		disposition, params, err := mime.ParseMediaType(header)
		s.Require().NoError(err, header)
		s.Equal("inline", disposition)
		s.Equal(name, params["filename"])
	}
}

func (s *APITestSuite) TestUploadRejectsEmptyAndMissingFile() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.upload(task.ID, "tax", "empty.txt", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodPost, taskPath(task.ID, "/files"), "tax", map[string]string{"file": "x"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestUploadTooLarge() {
	s.remount(func(rt *Routes) {
		rt.Files = NewFileHandler(s.fileService, 512, false, s.log)
	})
	task := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.upload(task.ID, "tax", "big.bin", bytes.Repeat([]byte("a"), 4096))
	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (s *APITestSuite) TestFetchFile_PairAndVisibility() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")
	other := s.createTask(s.xyz, models.FunctionTax, "tax")

	w := s.upload(task.ID, "tax", "a.pdf", []byte("x"))
	s.Require().Equal(http.StatusCreated, w.Code)
	var file dto.TaskFileDTO
	s.decode(w, &file)
	path := fmt.Sprintf("/files/%d", file.ID)

	w = s.request(http.MethodGet, taskPath(other.ID, path), "tax", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, taskPath(task.ID, path), "taxpeer", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, taskPath(task.ID, path), "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestFetchFile_PublicRead() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")
	w := s.upload(task.ID, "tax", "a.pdf", []byte("x"))
	s.Require().Equal(http.StatusCreated, w.Code)
	var file dto.TaskFileDTO
	s.decode(w, &file)

	s.remount(func(rt *Routes) {
		rt.Files = NewFileHandler(s.fileService, 1<<20, true, s.log)
	})

	w = s.request(http.MethodGet, taskPath(task.ID, fmt.Sprintf("/files/%d", file.ID)), "", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, taskPath(task.ID+1, fmt.Sprintf("/files/%d", file.ID)), "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestDeleteFile() {
	task := s.createTask(s.xyz, models.FunctionTax, "tax")
	w := s.upload(task.ID, "tax", "a.pdf", []byte("x"))
	s.Require().Equal(http.StatusCreated, w.Code)
	var file dto.TaskFileDTO
	s.decode(w, &file)
	path := fmt.Sprintf("/api/tasks/files/%d", file.ID)

	w = s.request(http.MethodDelete, path, "tax", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodDelete, path, "admin", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, path, "admin", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
