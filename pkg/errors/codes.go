package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	CodeOK                 ErrorCode = "OK"
	CodeUnknown            ErrorCode = "COMMON_000"
	CodeInternal           ErrorCode = "COMMON_001"
	CodeInvalidParam       ErrorCode = "COMMON_002"
	CodeNotFound           ErrorCode = "COMMON_003"
	CodeConflict           ErrorCode = "COMMON_004"
	CodeServiceUnavailable ErrorCode = "COMMON_005"
	CodeTimeout            ErrorCode = "COMMON_006"
	CodeValidation         ErrorCode = "COMMON_007"
	CodeSerialization      ErrorCode = "COMMON_008"
	CodeDatabaseError      ErrorCode = "COMMON_009"
	CodeCacheError         ErrorCode = "COMMON_010"
	CodeExternalService    ErrorCode = "COMMON_011"
	CodeNotImplemented     ErrorCode = "COMMON_012"
)

// Configuration error codes. Taxonomy and template definitions are hard
// prerequisites: the engine refuses to start without them.
const (
	CodeConfigInvalid    ErrorCode = "CFG_001"
	CodeConfigMissing    ErrorCode = "CFG_002"
	CodeTaxonomyEmpty    ErrorCode = "CFG_003"
	CodeRatingBandsEmpty ErrorCode = "CFG_004"
	CodeTemplateMissing  ErrorCode = "CFG_005"
	CodeTemplateInvalid  ErrorCode = "CFG_006"
)

// Risk identification error codes
const (
	CodeRiskAssessmentFailed ErrorCode = "RSK_001"
	CodeEntryFinalized       ErrorCode = "RSK_002"
	CodeEntryNotFinalized    ErrorCode = "RSK_003"
)

// Supplier evaluation error codes
const (
	CodeSupplierEvaluationFailed ErrorCode = "SUP_001"
	CodeTemplateNotFound         ErrorCode = "SUP_002"
)

// Evidence matching error codes
const (
	CodeEmbeddingFailed ErrorCode = "MCH_001"
	CodeRankingFailed   ErrorCode = "MCH_002"
)

// HTTPStatus maps an ErrorCode to the HTTP status code it should surface as.
// Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeTemplateNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeServiceUnavailable, CodeExternalService:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
