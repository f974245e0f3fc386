// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrForbidden — роль сессии не допускает операцию.
	ErrForbidden = errors.New("недостаточно прав для операции")
	// ErrNoEvent — мероприятие не выбрано, списки записей недоступны.
	ErrNoEvent = errors.New("мероприятие не выбрано")
)
