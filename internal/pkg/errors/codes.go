package errors

import "net/http"

const (
	CodeFileNotReadable      = "FILE_NOT_READABLE"
	CodeSchemaMismatch       = "SCHEMA_MISMATCH"
	CodeInvalidCategoryValue = "INVALID_CATEGORY_VALUE"
	CodeHexagonNotFound      = "HEXAGON_NOT_FOUND"
	CodeProcessingError      = "PROCESSING_ERROR"
	CodeInvalidRequest       = "INVALID_REQUEST"
)

var (
	ErrFileNotReadable = New(
		CodeFileNotReadable,
		"Dataset file is not readable",
		http.StatusServiceUnavailable,
	)

	ErrSchemaMismatch = New(
		CodeSchemaMismatch,
		"Required attribute not found in data",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidCategoryValue = New(
		CodeInvalidCategoryValue,
		"Damage category is not an integer",
		http.StatusUnprocessableEntity,
	)

	ErrHexagonNotFound = New(
		CodeHexagonNotFound,
		"Hexagon not found",
		http.StatusNotFound,
	)

	ErrProcessing = New(
		CodeProcessingError,
		"Processing failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)
)

// FileNotReadable - файл набора данных отсутствует или не парсится
func FileNotReadable(path string, err error) *AppError {
	return ErrFileNotReadable.WithMessage("cannot read %s", path).Wrap(err)
}

// SchemaMismatch - атрибут отсутствует во всей коллекции
func SchemaMismatch(attribute string, available []string) *AppError {
	return ErrSchemaMismatch.
		WithMessage("%s column not found in data", attribute).
		WithDetails(map[string]interface{}{"available_columns": available})
}

// InvalidCategoryValue - значение категории нельзя привести к целому
func InvalidCategoryValue(attribute string, featureIndex int, err error) *AppError {
	return ErrInvalidCategoryValue.
		WithMessage("invalid %s value at feature %d", attribute, featureIndex).
		WithDetails(map[string]interface{}{"feature_index": featureIndex}).
		Wrap(err)
}

// HexagonNotFound - гексагон с таким идентификатором отсутствует
func HexagonNotFound(id string) *AppError {
	return ErrHexagonNotFound.
		WithMessage("Hexagon %s not found", id).
		WithDetails(map[string]interface{}{"hexagon_id": id})
}

// Processing - всё остальное, что сломалось во время агрегации
func Processing(err error) *AppError {
	return ErrProcessing.WithMessage("%v", err).Wrap(err)
}
