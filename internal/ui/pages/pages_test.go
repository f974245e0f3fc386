package pages

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

// render рендерит компонент без загруженных каталогов (T возвращает ключи).
func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func mustContain(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(html, p) {
			t.Errorf("HTML не содержит %q", p)
		}
	}
}

func mustNotContain(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if strings.Contains(html, p) {
			t.Errorf("HTML не должен содержать %q", p)
		}
	}
}

func usersView(t *testing.T, data string, q url.Values) table.View {
	t.Helper()
	records, err := table.DecodeRecords([]byte(data))
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	def, _ := screen.Lookup("users")
	ds := table.NewDataset(def.Table)
	ds.Load(records)
	return ds.Derive(table.ParseViewState(q, 5), language.English)
}

func manyUsers(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := range n {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":"u` + string(rune('a'+i)) + `","name":"User ` + string(rune('A'+i)) + `"}`)
	}
	b.WriteString("]")
	return b.String()
}

func TestTable_EscapesCells(t *testing.T) {
	v := usersView(t, `[{"id":"1","name":"<script>alert(1)</script>","type":"VIP"}]`, nil)
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	mustContain(t, html, "&lt;script&gt;", `class="badge badge-purple"`, `id="table-users"`,
		`data-partial="/admin/partials/users-table"`)
	mustNotContain(t, html, "<script>alert")
}

func TestTable_PlaceholderForMissingField(t *testing.T) {
	v := usersView(t, `[{"id":"1","name":"A","phone":"123"},{"id":"2","name":"B"}]`, nil)
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	mustContain(t, html, "<td>-</td>")
}

func TestTable_EmptyState(t *testing.T) {
	v := usersView(t, `[]`, nil)
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	mustContain(t, html, "table.empty")
	mustNotContain(t, html, "<table", "table.no_matches")
}

func TestTable_NoMatches(t *testing.T) {
	v := usersView(t, `[{"id":"1","name":"Alice"}]`, url.Values{"q": {"zzz"}})
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	mustContain(t, html, "table.no_matches", `value="zzz"`)
	mustNotContain(t, html, "<table")
}

func TestTable_ErrorState(t *testing.T) {
	html := render(t, Table(TableData{Screen: screen.Polls, Error: "API down", View: table.View{State: table.NewViewState(10)}}))

	mustContain(t, html, `role="alert"`, "API down", "table.retry")
	mustNotContain(t, html, "<table", "table.search")
}

func TestTable_SortLinks(t *testing.T) {
	v := usersView(t, `[{"id":"1","name":"A"}]`, url.Values{"sort": {"name"}, "order": {"asc"}})
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	// Повторный выбор колонки переключает направление.
	mustContain(t, html, `aria-sort="ascending"`, "order=desc", "Name ▲")
}

func TestTable_Pagination(t *testing.T) {
	v := usersView(t, manyUsers(12), url.Values{"page": {"2"}})
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	mustContain(t, html, `aria-current="page"`, `href="/admin/users?size=5"`, "page=3&amp;size=5", "table.prev", "table.next")
	if strings.Count(html, "<tr>") != 6 {
		t.Errorf("ожидалось 5 строк и заголовок, получено %d <tr>", strings.Count(html, "<tr>"))
	}
}

func TestTable_DeleteOnlyWhenMutable(t *testing.T) {
	v := usersView(t, `[{"id":"a/b","name":"A"}]`, nil)

	html := render(t, Table(TableData{Screen: screen.Users, View: v}))
	mustNotContain(t, html, "/delete")

	html = render(t, Table(TableData{Screen: screen.Users, View: v, CanMutate: true}))
	mustContain(t, html, `action="/admin/users/a%2Fb/delete"`, "data-confirm")
}

func TestTable_QRAction(t *testing.T) {
	v := usersView(t, `[{"id":"7","name":"A","qr_code":"x.png"}]`, nil)
	html := render(t, Table(TableData{Screen: screen.Users, View: v}))

	mustContain(t, html, `data-qr="/admin/credentials/7/qr"`, "table.show_qr")
}

func TestCreateForm_Multipart(t *testing.T) {
	def, _ := screen.Lookup("users")
	html := render(t, CreateForm(FormData{
		Def:    def,
		Values: url.Values{"name": {"Bob"}, "type": {"VIP"}},
		Errors: map[string]string{"email": "email is required"},
		Open:   true,
	}))

	mustContain(t, html,
		`enctype="multipart/form-data"`,
		`action="/admin/users"`,
		`value="Bob"`,
		`<option value="VIP" selected="selected">`,
		`class="field has-error"`,
		"email is required",
		`type="file"`,
		" open=\"open\"",
	)
}

func TestCreateForm_URLEncoded(t *testing.T) {
	def, _ := screen.Lookup("notifications")
	html := render(t, CreateForm(FormData{Def: def}))

	mustNotContain(t, html, "enctype")
	mustContain(t, html, "<textarea", `name="message"`)
}

func TestLayout_SettingsLinkByRole(t *testing.T) {
	body := Alert(AlertInfo, "x")

	html := render(t, Layout(LayoutData{TitleKey: "nav.dashboard", Role: rbac.RoleViewer, Username: "v"}, body))
	mustNotContain(t, html, `href="/admin/settings"`)
	mustContain(t, html, `href="/admin/users"`, `action="/admin/logout"`, "role.viewer")

	html = render(t, Layout(LayoutData{TitleKey: "nav.dashboard", Role: rbac.RoleSuperAdmin, EventName: "Expo"}, body))
	mustContain(t, html, `href="/admin/settings"`, "Expo")
}

func TestDashboard(t *testing.T) {
	html := render(t, Dashboard(DashboardData{
		CanSelect:  true,
		Events:     []EventOption{{ID: "e1", Name: "Expo"}, {ID: "e2", Name: "Forum"}},
		SelectedID: "e2",
		Counts: []CountItem{
			{Screen: screen.Users, TitleKey: "screen.users", Count: 3},
			{Screen: screen.Polls, TitleKey: "screen.polls", Count: -1},
		},
	}))

	mustContain(t, html, `<option value="e2" selected="selected">Forum</option>`, ">3<", "dashboard.count_unavailable")
}

func TestDashboard_NoEvent(t *testing.T) {
	html := render(t, Dashboard(DashboardData{}))
	mustContain(t, html, "dashboard.no_event_selected")
	mustNotContain(t, html, "event_id")
}

func TestSettingsPage(t *testing.T) {
	html := render(t, SettingsPage(SettingsData{
		Storage: "memory",
		Rows: []SettingsRow{
			{Screen: screen.Users, TitleKey: "screen.users", PageSize: 20, SortColumn: "name", SortDir: table.Desc, Stored: true, UpdatedBy: "root"},
			{Screen: screen.Polls, TitleKey: "screen.polls", PageSize: 10, SortDir: table.Asc},
		},
	}))

	mustContain(t, html, `<option value="20" selected="selected">`, `value="name"`, `value="reset"`, "settings.from_config")
	if strings.Count(html, `value="reset"`) != 1 {
		t.Error("сброс доступен только для сохранённых умолчаний")
	}
}

func TestLoginPage(t *testing.T) {
	html := render(t, LoginPage(LoginData{Email: `a"b@x.io`, Error: "bad"}))
	mustContain(t, html, `value="a&#34;b@x.io"`, "bad", `action="/admin/login"`)
}
