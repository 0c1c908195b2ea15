package errors_test

import (
	"fmt"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
)

// Example demonstrates reporting an unknown journal severity.
func ExampleNewUnsupportedSeverityName() {
	err := errors.NewUnsupportedSeverityName("exported_log_level", "LOUD")
	fmt.Println(err.Error())
	fmt.Println("Code:", err.Code())
	// Output:
	// validation error: exported_log_level: unsupported severity name "LOUD"
	// Code: VALIDATION_ERROR
}

// Example demonstrates wrapping store errors with context.
func ExampleWrap() {
	openErr := errors.NewStoreUnavailableError("open", fmt.Errorf("permission denied"))
	wrappedErr := errors.Wrap(openErr, "starting tail")

	fmt.Println(wrappedErr.Error())
	fmt.Println("Fatal:", errors.IsFatal(wrappedErr))
	// Output:
	// starting tail: journal open failed: permission denied
	// Fatal: true
}

// Example demonstrates telling record failures apart from fatal ones.
func ExampleIsRecordRead() {
	err := errors.NewRecordReadError("", fmt.Errorf("bad object"))

	if errors.IsRecordRead(err) && !errors.IsFatal(err) {
		fmt.Println("skip record")
	}
	// Output:
	// skip record
}
