package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"claim-assessment-engine/internal/application/assess"
	"claim-assessment-engine/internal/application/dto"
	"claim-assessment-engine/internal/domain/claim"
)

// ClaimHandler handles claim assessment HTTP requests
type ClaimHandler struct {
	assessUseCase *assess.AssessClaimUseCase
	maxImageBytes int64
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(assessUseCase *assess.AssessClaimUseCase, maxImageBytes int64) *ClaimHandler {
	return &ClaimHandler{
		assessUseCase: assessUseCase,
		maxImageBytes: maxImageBytes,
	}
}

// AssessClaim handles POST /api/v1/claims/assess. The body is either
// JSON with a base64 image or a multipart form with an "image" file.
func (h *ClaimHandler) AssessClaim(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates the payload by roughly a third.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes*2)

	var input *assess.AssessClaimInput
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		input, err = h.parseMultipart(r)
	} else {
		var req assess.AssessClaimRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+decodeErr.Error())
			return
		}
		input, err = req.ToInput()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.assessUseCase.Execute(r.Context(), *input)
	if err != nil {
		switch {
		case errors.Is(err, claim.ErrMissingImage), errors.Is(err, claim.ErrDescriptionTooShort):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Assessment failed: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.FromAssessment(result.Report, result.Duplicate, result.LatencyMs))
}

// GetClaim handles GET /api/v1/claims/{id}
func (h *ClaimHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	claimID := r.PathValue("id")
	if claimID == "" {
		writeError(w, http.StatusBadRequest, "Claim ID is required")
		return
	}

	report, err := h.assessUseCase.GetReport(r.Context(), claimID)
	if err != nil {
		if errors.Is(err, claim.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "Claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get claim: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportResponse{Report: report})
}

// ListClaims handles GET /api/v1/claims
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	summaries, err := h.assessUseCase.ListReports(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list claims: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Claims: summaries,
		Total:  len(summaries),
		Limit:  limit,
		Offset: offset,
	})
}

// parseMultipart reads the form-based variant of the assess request:
// the image arrives as a file part, every other field as a form value
// named like its JSON counterpart.
func (h *ClaimHandler) parseMultipart(r *http.Request) (*assess.AssessClaimInput, error) {
	if err := r.ParseMultipartForm(h.maxImageBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("image file is required: %w", err)
	}
	defer file.Close()

	// Read one byte past the limit so an oversize image is rejected
	// instead of being silently truncated into undecodable bytes.
	image, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(image)) > h.maxImageBytes {
		return nil, fmt.Errorf("image exceeds the %d byte upload limit", h.maxImageBytes)
	}

	req := assess.AssessClaimRequest{
		ClaimID: r.FormValue("claim_id"),
		ClaimInfo: assess.ClaimInfoRequest{
			Date:        r.FormValue("date"),
			Description: r.FormValue("description"),
			Location:    r.FormValue("location"),
			PolicyID:    r.FormValue("policy_id"),
		},
		Damage: assess.DamageRequest{
			Score:        r.FormValue("damage_score"),
			DamagedParts: r.MultipartForm.Value["damaged_parts"],
			Description:  r.FormValue("damage_description"),
		},
		Consistency: assess.ConsistencyRequest{
			Score:        r.FormValue("consistency_score"),
			IsConsistent: formBool(r, "is_consistent"),
			Explanation:  r.FormValue("consistency_explanation"),
		},
		Metadata: assess.MetadataRequest{
			HasEXIF:     formBool(r, "has_exif"),
			CameraMake:  r.FormValue("camera_make"),
			CameraModel: r.FormValue("camera_model"),
			Software:    r.FormValue("software"),
			Timestamp:   r.FormValue("timestamp"),
		},
		Validation: assess.ValidationRequest{
			RiskScore: r.FormValue("validation_risk_score"),
			Issues:    r.MultipartForm.Value["validation_issues"],
		},
	}
	return req.ToInputWithImage(image)
}

func formBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.FormValue(name))
	return err == nil && v
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
