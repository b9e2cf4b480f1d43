package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/emojitopng/emojitopng-backend/internal/ingest"
	"github.com/emojitopng/emojitopng-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// maxImportSize 가져오기 요청 본문 최대 크기
const maxImportSize = 32 << 20

// previewSize 검증 응답에 포함할 레코드 수
const previewSize = 10

// DatasetHandler 관리자 데이터셋 API
type DatasetHandler struct {
	catalog *service.CatalogService
	dataset *service.DatasetService
}

// NewDatasetHandler creates a new DatasetHandler
func NewDatasetHandler(catalog *service.CatalogService, dataset *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{catalog: catalog, dataset: dataset}
}

// readCSV accepts either a raw text/csv body or JSON {"csv": "..."}
func readCSV(c *gin.Context) (string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req domain.DatasetImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", err
		}
		return req.CSV, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func validationResponse(res *ingest.Result, reason string) domain.DatasetValidationResponse {
	out := domain.DatasetValidationResponse{
		Valid:   !res.Empty(),
		Records: len(res.Records),
		Skipped: make([]domain.RowIssueResponse, len(res.Skipped)),
		Preview: make([]domain.EmojiSummary, 0, previewSize),
		Reason:  reason,
	}
	for i, issue := range res.Skipped {
		out.Skipped[i] = domain.RowIssueResponse{Line: issue.Line, Reason: issue.Reason}
	}
	for i := 0; i < len(res.Records) && i < previewSize; i++ {
		out.Preview = append(out.Preview, res.Records[i].ToSummary())
	}
	return out
}

// Validate handles POST /api/v1/admin/dataset/validate
// 저장하지 않고 파싱 결과만 반환
func (h *DatasetHandler) Validate(c *gin.Context) {
	raw, err := readCSV(c)
	if err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다", err)
		return
	}

	res := h.dataset.Validate(raw)
	reason := ""
	if res.Empty() {
		reason = "no valid rows found"
	}
	common.V2Success(c, validationResponse(res, reason))
}

// Import handles PUT /api/v1/admin/dataset
func (h *DatasetHandler) Import(c *gin.Context) {
	raw, err := readCSV(c)
	if err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다", err)
		return
	}

	res, snap, err := h.catalog.Save(c.Request.Context(), raw)
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, common.V2Response{
				Success: false,
				Data:    validationResponse(res, verr.Reason),
				Error:   &common.V2Error{Code: "VALIDATION_FAILED", Message: verr.Reason},
			})
			return
		}
		common.V2ErrorResponse(c, common.StatusFor(err), "데이터셋 저장 실패", err)
		return
	}

	common.V2Success(c, gin.H{
		"import":  validationResponse(res, ""),
		"dataset": snap.Status(),
	})
}

// Clear handles DELETE /api/v1/admin/dataset
func (h *DatasetHandler) Clear(c *gin.Context) {
	snap, err := h.catalog.Clear(c.Request.Context())
	if err != nil {
		common.V2ErrorResponse(c, common.StatusFor(err), "데이터셋 초기화 실패", err)
		return
	}
	common.V2Success(c, snap.Status())
}

// Export handles GET /api/v1/admin/dataset
func (h *DatasetHandler) Export(c *gin.Context) {
	raw, source, err := h.dataset.Export(c.Request.Context())
	if err != nil {
		common.V2ErrorResponse(c, common.StatusFor(err), "데이터셋 내보내기 실패", err)
		return
	}

	c.Header("X-Dataset-Source", string(source))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="emojis-%s.csv"`, source))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(raw))
}

// Reload handles POST /api/v1/admin/dataset/reload
func (h *DatasetHandler) Reload(c *gin.Context) {
	snap := h.catalog.Reload(c.Request.Context())
	common.V2Success(c, snap.Status())
}
