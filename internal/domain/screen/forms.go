package screen

import (
	"net/url"
	"strings"
	"time"
)

// formTimeLayout — формат полей datetime-local.
const formTimeLayout = "2006-01-02T15:04"

// Form — форма создания записи: проверяется Validate и превращается
// в тело запроса к Events API.
type Form interface {
	Payload() url.Values
}

// UserForm — регистрация участника.
type UserForm struct {
	Name  string `form:"name" validate:"required,min=2,max=100"`
	Email string `form:"email" validate:"required,email,max=254"`
	Phone string `form:"phone" validate:"omitempty,min=5,max=20"`
	Type  string `form:"type" validate:"required,oneof=VIP Speaker Guest Delegate Staff Sponsor"`
}

// Payload реализует Form.
func (f *UserForm) Payload() url.Values {
	v := url.Values{}
	v.Set("name", f.Name)
	v.Set("email", f.Email)
	if f.Phone != "" {
		v.Set("phone", f.Phone)
	}
	v.Set("type", f.Type)
	return v
}

// ScheduleForm — пункт расписания.
type ScheduleForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=2000"`
	Location    string `form:"location" validate:"max=200"`
	Type        string `form:"type" validate:"required,oneof=session keynote workshop break networking"`
	StartTime   string `form:"start_time" validate:"required,datetime=2006-01-02T15:04"`
	EndTime     string `form:"end_time" validate:"required,datetime=2006-01-02T15:04"`
}

// Payload реализует Form.
func (f *ScheduleForm) Payload() url.Values {
	v := url.Values{}
	v.Set("title", f.Title)
	if f.Description != "" {
		v.Set("description", f.Description)
	}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	v.Set("type", f.Type)
	v.Set("start_time", f.StartTime)
	v.Set("end_time", f.EndTime)
	return v
}

// EndsAfterStart проверяет порядок времени начала и окончания.
// Невалидные значения времени отсеиваются Validate раньше.
func (f *ScheduleForm) EndsAfterStart() bool {
	start, err1 := time.Parse(formTimeLayout, f.StartTime)
	end, err2 := time.Parse(formTimeLayout, f.EndTime)
	if err1 != nil || err2 != nil {
		return true
	}
	return end.After(start)
}

// NotificationForm — уведомление участникам.
type NotificationForm struct {
	Title   string `form:"title" validate:"required,max=150"`
	Message string `form:"message" validate:"required,max=1000"`
	Type    string `form:"type" validate:"required,oneof=info alert reminder update"`
}

// Payload реализует Form.
func (f *NotificationForm) Payload() url.Values {
	v := url.Values{}
	v.Set("title", f.Title)
	v.Set("message", f.Message)
	v.Set("type", f.Type)
	return v
}

// PollForm — опрос; варианты вводятся через запятую.
type PollForm struct {
	Question string `form:"question" validate:"required,max=300"`
	Options  string `form:"options" validate:"required,poll_options"`
}

// Payload реализует Form. Каждый вариант передаётся отдельным значением options.
func (f *PollForm) Payload() url.Values {
	v := url.Values{}
	v.Set("question", f.Question)
	for _, o := range SplitOptions(f.Options) {
		v.Add("options", o)
	}
	return v
}

// trimmed возвращает значение поля без пробелов по краям.
func trimmed(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

func bindUser(v url.Values) Form {
	return &UserForm{
		Name:  trimmed(v, "name"),
		Email: trimmed(v, "email"),
		Phone: trimmed(v, "phone"),
		Type:  trimmed(v, "type"),
	}
}

func bindSchedule(v url.Values) Form {
	return &ScheduleForm{
		Title:       trimmed(v, "title"),
		Description: trimmed(v, "description"),
		Location:    trimmed(v, "location"),
		Type:        trimmed(v, "type"),
		StartTime:   trimmed(v, "start_time"),
		EndTime:     trimmed(v, "end_time"),
	}
}

func bindNotification(v url.Values) Form {
	return &NotificationForm{
		Title:   trimmed(v, "title"),
		Message: trimmed(v, "message"),
		Type:    trimmed(v, "type"),
	}
}

func bindPoll(v url.Values) Form {
	return &PollForm{
		Question: trimmed(v, "question"),
		Options:  trimmed(v, "options"),
	}
}
