package bot

// User-facing texts.
const (
	textMainMenu      = "Главное меню:"
	textChooseMenu    = "Пожалуйста, выберите пункт меню из списка."
	textDefaultHello  = "Добро пожаловать!"
	textGenericError  = "Произошла ошибка. Попробуйте позже."
	textUnknownAction = "Неизвестная команда."
	textUnexpectedDoc = "Документы не принимаются. Пожалуйста, выберите пункт меню."

	textEventsEmpty    = "Мероприятия пока не запланированы."
	textEventsChoose   = "Выберите дату мероприятия:"
	textEventsNoneDate = "Мероприятий на эту дату нет."
	textEventsStale    = "Пожалуйста, заново вызовите команду /events"
	textUntitled       = "Без названия"

	textToursEmpty    = "Туры пока не запланированы."
	textToursChoose   = "Выберите дату тура:"
	textToursNoneDate = "Туров на эту дату нет."
	textToursStale    = "Пожалуйста, заново вызовите команду /tours"
	textRegistered    = "Вы записаны на тур"
	textUnregistered  = "Вы отписались от тура"
	textBackToDates   = "⬅️ Назад к датам"

	textGuideEmpty   = "Путеводитель временно недоступен."
	textGuideChoose  = "Выберите категорию путеводителя:"
	textContactEmpty = "Контакты временно недоступны."
	textContactPick  = "Выберите категорию контактов:"
	textNoName       = "Без имени"
	textLink         = "Ссылка"
	textBack         = "⬅️ Назад"

	textMaterialsError  = "Ошибка при загрузке списка материалов."
	textMaterialsEmpty  = "Материалы пока отсутствуют."
	textMaterialsChoose = "Вы можете скачать следующие материалы:"
	textFileNotFound    = "Файл не найден."
	textFileSendFailed  = "Не удалось отправить файл. Попробуйте позже."

	textSouvenirInfo    = "Информация о сувенирах временно недоступна."
	textSouvenirMenu    = "Меню сувениров:"
	textSouvenirChoose  = "Пожалуйста, выберите пункт из меню."
	textNoOrder         = "У вас нет текущих заказов."
	textOrderDeleted    = "Ваш заказ успешно удалён."
	textNothingToDelete = "У вас нет заказов для удаления."
	textBadFormData     = "Ошибка: неверный формат данных."
	textWebAppCancelled = "✅ Заказ успешно отменён."
	textWebAppNoOrder   = "❗ Заказа для отмены не найдено."
	textEmptyCart       = "Корзина пуста. Заказ не оформлен."
	textClearLocalStore = "clear_local_storage"
	textExportEmpty     = "Заказов пока нет."
	textExportFileName  = "orders.xlsx"
	textQRNoUsername    = "Имя бота не настроено (bot_username)."

	textSupportPrompt    = "Пожалуйста, опишите ваш вопрос или проблему.\nВы можете отменить отправку, нажав кнопку ниже."
	textSupportCancelBtn = "Отменить"
	textSupportCanceled  = "Отправка запроса отменена."
	textSupportNoChat    = "Ошибка конфигурации — обратитесь к администратору."
	textSupportSent      = "✅ Ваш запрос отправлен оператору. Возвращаемся в главное меню."
	textSupportFailed    = "Не удалось отправить запрос оператору. Попробуйте позже."

	textRateLimited = "Слишком много запросов. Подождите немного."
	textAdminOnly   = "Команда доступна только администратору."
)

// Content files under the data directory, without the .txt extension.
const (
	messageWelcome   = "welcome"
	messageSouvenirs = "souvenirs"
)
