package prediction

import "errors"

var (
	// ErrInsufficientHistory signals too few records to train or predict.
	ErrInsufficientHistory = errors.New("prediction: insufficient history")
	// ErrUnknownEmployee signals a matricule absent from the training window.
	ErrUnknownEmployee = errors.New("prediction: unknown employee")
	// ErrNotTrained signals a predict call before a successful train.
	ErrNotTrained = errors.New("prediction: model not trained")
)
