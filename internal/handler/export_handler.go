package handler

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/service"
	"card-ledger/pkg/utils"
)

// ExportHandler serves projection statements as XML
type ExportHandler struct {
	exportService service.ExportService
	logger        *logrus.Logger
	config        *configs.Config
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService service.ExportService, logger *logrus.Logger, config *configs.Config) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
		config:        config,
	}
}

// ProjectionXML writes the projection of a card as an XML attachment
func (h *ExportHandler) ProjectionXML(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	cardID, err := queryInt(r, "card_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	months, err := queryInt(r, "months")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.exportService.ProjectionXML(r.Context(), id, cardID, months)
	if err != nil {
		respondServiceError(w, h.logger, err, "export projection")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="projection-%d.xml"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.logger.Warnf("Failed to write export: %v", err)
	}
}
