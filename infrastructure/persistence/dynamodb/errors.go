package dynamodb

import "errors"

// asType wraps errors.As for the SDK's pointer-typed exception values
func asType[T error](err error, target *T) bool {
	return errors.As(err, target)
}
