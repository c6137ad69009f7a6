// Package access содержит решающее ядро сервиса: единственную функцию
// политики доступа и сервис, который подтягивает для неё факты из хранилища.
package access

import "github.com/magabrotheeeer/tool-entitlement/internal/models"

// Decide принимает решение о доступе к инструменту. Чистая функция без
// ввода-вывода: все факты переданы аргументами. nil tool — инструмент
// не найден в каталоге, nil user — анонимный посетитель.
//
// Проверки идут по порядку, первая сработавшая завершает вычисление:
//
//  1. неизвестный инструмент — отказ, в том числе администраторам:
//     отсутствие записи в каталоге не является разрешением;
//  2. free-инструмент — доступ без какой-либо аутентификации;
//  3. аноним — отказ;
//  4. роль admin — доступ к любому инструменту каталога;
//  5. pro-инструмент при активной подписке — доступ;
//  6. custom-инструмент из индивидуального списка — доступ;
//  7. иначе — отказ.
//
// Других исходов нет: частичных или условных разрешений политика не знает.
func Decide(tool *models.Tool, user *models.User) bool {
	if tool == nil {
		return false
	}
	if tool.AccessLevel == models.AccessLevelFree {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if tool.AccessLevel == models.AccessLevelPro &&
		user.SubscriptionStatus == models.SubscriptionActive {
		return true
	}
	if tool.AccessLevel == models.AccessLevelCustom &&
		user.HasPermittedTool(tool.Filename) {
		return true
	}
	return false
}
