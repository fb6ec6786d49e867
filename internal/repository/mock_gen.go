// internal/repository/mock_gen.go
package repository

//go:generate mockgen -typed -source=./translation.go -destination=../mocks/mock_translation_repository.go -package=mocks TranslationRepositoryIface
