// Пакет rbac — роли пользователей консоли и их права.
// Роль приходит из ответа входа Events API и не меняется до конца сессии.
// Неизвестная роль получает права viewer.
package rbac

import "strings"

// Роли в порядке возрастания привилегий.
const (
	RoleViewer     = "viewer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[string]int{
	RoleViewer:     1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Normalize приводит роль из ответа бэкенда к каноническому виду:
// "Super Admin", "super-admin", "SUPER_ADMIN" → super_admin.
// Неизвестная роль → viewer.
func Normalize(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	r = strings.NewReplacer(" ", "_", "-", "_").Replace(r)
	if _, ok := roleWeight[r]; ok {
		return r
	}
	return RoleViewer
}

// AtLeast проверяет, что роль не ниже min.
func AtLeast(role, min string) bool {
	return roleWeight[Normalize(role)] >= roleWeight[min]
}

// CanSelectEvent — может ли роль переключать мероприятия.
// Остальные роли привязаны к мероприятию из ответа входа.
func CanSelectEvent(role string) bool {
	return AtLeast(role, RoleSuperAdmin)
}

// CanMutate — может ли роль создавать и удалять записи.
func CanMutate(role string) bool {
	return AtLeast(role, RoleAdmin)
}

// CanManageSettings — может ли роль менять умолчания таблиц.
func CanManageSettings(role string) bool {
	return AtLeast(role, RoleAdmin)
}

// IsValidRole проверяет, является ли строка известной ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}
