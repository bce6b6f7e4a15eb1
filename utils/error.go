package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

func ErrorDuplicateValue(column string) error {
	return errors.New(column + " already exists")
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
