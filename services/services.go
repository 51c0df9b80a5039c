// Package services holds the business rules of the crime report portal. Handlers decode
// requests and call into these services, which talk to mongo through the databases package.
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/crime-report-api/models"
)

// now is swapped in tests
var now = func() time.Time {
	return time.Now().UTC()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the validate tags of v and reports the first failing fields as an
// invalid_input error
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewError(models.CodeInvalidInput, err.Error())
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return models.NewError(models.CodeInvalidInput, "invalid input: "+strings.Join(fields, "; "))
}

// parseID turns a hex id into an ObjectID. Ids that cannot be parsed cannot exist, so the
// failure is reported as notFound.
func parseID(hex string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}

// lookupErr maps a missing document onto notFound and wraps anything else
func lookupErr(err error, notFound error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return fmt.Errorf("find %s: %w", what, err)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
