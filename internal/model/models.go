package model

// UploadRequest is the JSON form of POST /api/v1/session/upload. Contents
// is the data URL produced by the browser ("data:text/csv;base64,...").
type UploadRequest struct {
	Filename string `json:"filename" validate:"max=255"`
	Contents string `json:"contents" validate:"required"`
}

// SelectRequest updates the aggregation controls. Absent fields are left
// unchanged; an empty list clears that selection.
type SelectRequest struct {
	GroupBy  *[]string `json:"group_by,omitempty" validate:"omitempty,dive,required"`
	Values   *[]string `json:"values,omitempty" validate:"omitempty,dive,required"`
	Function *string   `json:"function,omitempty" validate:"omitempty,oneof=mean min max"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
