package handlers

import (
	"net/http"
	"strconv"

	"taskmanager/internal/handlers/dto"
)

type FileHandler struct {
	fileService FileService
}

func NewFileHandler(fileService FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, blob, err := h.fileService.Download(r.Context(), caller.ID, id)
	if err != nil {
		respondError(w, err, "download_file")
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+file.OriginalName+`"`)
	if file.MimeType != "" {
		w.Header().Set("Content-Type", file.MimeType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))

	http.ServeContent(w, r, file.OriginalName, file.CreatedAt, blob)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), caller.ID, id); err != nil {
		respondError(w, err, "delete_file")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MessageResponse{Message: "File deleted"})
}
