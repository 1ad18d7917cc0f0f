package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Action names a user action for choosing a fallback error message.
type Action int

const (
	ActionLoad Action = iota
	ActionAdd
	ActionToggle
	ActionEdit
	ActionDelete
)

const (
	keyLoadFailed   = "load.failed"
	keyAddFailed    = "add.failed"
	keyToggleFailed = "toggle.failed"
	keyEditFailed   = "edit.failed"
	keyDeleteFailed = "delete.failed"

	KeyTitle         = "ui.title"
	KeyLoading       = "ui.loading"
	KeyEmpty         = "ui.empty"
	KeyCounts        = "ui.counts"
	KeyConfirmDelete = "ui.confirm_delete"
	KeyAddPrompt     = "ui.add_prompt"
	KeyEditPrompt    = "ui.edit_prompt"
	KeyFilterAll     = "filter.all"
	KeyFilterActive  = "filter.active"
	KeyFilterDone    = "filter.completed"
)

var supported = []language.Tag{language.English, language.Thai}

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyLoadFailed:    "Could not load todos",
		keyAddFailed:     "Could not add todo",
		keyToggleFailed:  "Could not update status",
		keyEditFailed:    "Could not update todo",
		keyDeleteFailed:  "Could not delete todo",
		KeyTitle:         "Todo List",
		KeyLoading:       "Loading...",
		KeyEmpty:         "No todos match this filter",
		KeyCounts:        "%d left / %d total",
		KeyConfirmDelete: "Delete this todo? (y/n)",
		KeyAddPrompt:     "Add a todo, e.g. \"Read for 30 minutes\"",
		KeyEditPrompt:    "Edit title",
		KeyFilterAll:     "All",
		KeyFilterActive:  "Active",
		KeyFilterDone:    "Completed",
	},
	language.Thai: {
		keyLoadFailed:    "ไม่สามารถดึงรายการได้",
		keyAddFailed:     "เพิ่มงานไม่สำเร็จ",
		keyToggleFailed:  "อัปเดตสถานะไม่สำเร็จ",
		keyEditFailed:    "แก้ไขงานไม่สำเร็จ",
		keyDeleteFailed:  "ลบงานไม่สำเร็จ",
		KeyTitle:         "Todo List",
		KeyLoading:       "กำลังโหลด...",
		KeyEmpty:         "ยังไม่มีรายการตามเงื่อนไข",
		KeyCounts:        "เหลือทำ %d / ทั้งหมด %d",
		KeyConfirmDelete: "ต้องการลบงานนี้หรือไม่? (y/n)",
		KeyAddPrompt:     "เพิ่มงาน เช่น “อ่านหนังสือ 30 นาที”",
		KeyEditPrompt:    "แก้ไขชื่องาน",
		KeyFilterAll:     "ทั้งหมด",
		KeyFilterActive:  "ยังไม่เสร็จ",
		KeyFilterDone:    "เสร็จแล้ว",
	},
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Messages renders localized UI strings.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// NewMessages picks the closest supported language for lang ("en", "th",
// "th-TH", ...); unknown or empty values fall back to English.
func NewMessages(lang string) *Messages {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, confidence := language.NewMatcher(supported).Match(parsed)
		if confidence != language.No {
			tag = supported[idx]
		}
	}
	return &Messages{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

func (m *Messages) Language() language.Tag {
	return m.tag
}

func (m *Messages) Sprintf(key string, args ...any) string {
	return m.printer.Sprintf(key, args...)
}

// Fallback is the generic failure message for an action.
func (m *Messages) Fallback(action Action) string {
	switch action {
	case ActionLoad:
		return m.Sprintf(keyLoadFailed)
	case ActionAdd:
		return m.Sprintf(keyAddFailed)
	case ActionToggle:
		return m.Sprintf(keyToggleFailed)
	case ActionEdit:
		return m.Sprintf(keyEditFailed)
	default:
		return m.Sprintf(keyDeleteFailed)
	}
}
