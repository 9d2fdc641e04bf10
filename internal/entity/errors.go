package entity

import "errors"

// Domain errors shared by the scheduling service and its clients.
var (
	ErrWordNotFound    = errors.New("word not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrNoReviewHistory = errors.New("no review history to undo")
	ErrDuplicateWord   = errors.New("word already exists")
	ErrInvalidWordText = errors.New("invalid word text")
	ErrInvalidWordID   = errors.New("invalid word ID")
	ErrInvalidGrade    = errors.New("invalid grade")
)
