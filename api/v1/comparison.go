// Package v1 holds the BuildComparison gRPC API. Messages travel as
// google.protobuf.Struct values; the typed helpers here convert to and from them.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"

	structpb "google.golang.org/protobuf/types/known/structpb"
)

const (
	FieldCompareBuildID = "compare_build_id"
	FieldBaseBuildID    = "base_build_id"
	FieldURL            = "url"
	FieldCompareReport  = "compare_report"
	FieldBaseReport     = "base_report"
)

var ErrInvalidField = errors.New("invalid field")

// CompareBuildsRequest selects two stored builds and the URL whose reports are compared.
// An empty BaseBuildID asks the server to use the ancestor build.
type CompareBuildsRequest struct {
	CompareBuildID string
	BaseBuildID    string
	URL            string
}

func (r CompareBuildsRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		FieldCompareBuildID: r.CompareBuildID,
		FieldBaseBuildID:    r.BaseBuildID,
		FieldURL:            r.URL,
	})
}

func ParseCompareBuildsRequest(s *structpb.Struct) (CompareBuildsRequest, error) {
	var req CompareBuildsRequest
	var err error
	if req.CompareBuildID, err = stringField(s, FieldCompareBuildID); err != nil {
		return CompareBuildsRequest{}, err
	}
	if req.BaseBuildID, err = stringField(s, FieldBaseBuildID); err != nil {
		return CompareBuildsRequest{}, err
	}
	if req.URL, err = stringField(s, FieldURL); err != nil {
		return CompareBuildsRequest{}, err
	}
	return req, nil
}

// CompareReportsRequest carries raw report documents. Reports are sent as JSON
// strings rather than nested structs since Struct does not keep key order.
type CompareReportsRequest struct {
	CompareReport string
	BaseReport    string
}

func (r CompareReportsRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		FieldCompareReport: r.CompareReport,
		FieldBaseReport:    r.BaseReport,
	})
}

func ParseCompareReportsRequest(s *structpb.Struct) (CompareReportsRequest, error) {
	var req CompareReportsRequest
	var err error
	if req.CompareReport, err = stringField(s, FieldCompareReport); err != nil {
		return CompareReportsRequest{}, err
	}
	if req.BaseReport, err = stringField(s, FieldBaseReport); err != nil {
		return CompareReportsRequest{}, err
	}
	return req, nil
}

// DecodeStruct decodes a response struct into dest using its JSON field names.
func DecodeStruct(s *structpb.Struct, dest any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// stringField returns the named string field. Absent and null fields are empty.
func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidField, name)
	}
}
