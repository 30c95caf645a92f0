// Package i18n — подписи интерфейса на поддерживаемых языках.
package i18n

import (
	"LendIt/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Ключи сообщений — английский текст.
const (
	KeyItem         = "Item"
	KeyCounterparty = "Counterparty"
	KeyDue          = "Due"
	KeyStatus       = "Status"
	KeyType         = "Type"
	KeyNoItems      = "No items"
	KeyTotal        = "Total: %d"
	KeyReturned     = "Returned"
	KeyDeleted      = "Deleted"
	KeyCreated      = "Created"
)

// Supported — языки интерфейса; первый используется, если совпадения нет.
var Supported = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
	language.Dutch,
}

var matcher = language.NewMatcher(Supported)

var statusKeys = map[model.Status]string{
	model.StatusActive:   "Active",
	model.StatusDueSoon:  "Due soon",
	model.StatusOverdue:  "Overdue",
	model.StatusReturned: "Returned",
}

var typeKeys = map[model.ItemType]string{
	model.ItemTypeLent:     "Lent",
	model.ItemTypeBorrowed: "Borrowed",
}

var translations = map[string][4]string{
	// fr, de, es, nl
	"Active":        {"Actif", "Aktiv", "Activo", "Actief"},
	"Due soon":      {"Bientôt dû", "Bald fällig", "Vence pronto", "Binnenkort"},
	"Overdue":       {"En retard", "Überfällig", "Vencido", "Achterstallig"},
	"Returned":      {"Rendu", "Zurückgegeben", "Devuelto", "Teruggebracht"},
	"Lent":          {"Prêté", "Verliehen", "Prestado", "Uitgeleend"},
	"Borrowed":      {"Emprunté", "Geliehen", "Pedido prestado", "Geleend"},
	KeyItem:         {"Objet", "Gegenstand", "Objeto", "Voorwerp"},
	KeyCounterparty: {"Personne", "Person", "Persona", "Persoon"},
	KeyDue:          {"Échéance", "Fällig", "Vence", "Vervalt"},
	KeyStatus:       {"Statut", "Status", "Estado", "Status"},
	KeyType:         {"Type", "Art", "Tipo", "Soort"},
	KeyNoItems:      {"Aucun objet", "Keine Einträge", "Sin objetos", "Geen voorwerpen"},
	KeyTotal:        {"Total : %d", "Gesamt: %d", "Total: %d", "Totaal: %d"},
	KeyDeleted:      {"Supprimé", "Gelöscht", "Eliminado", "Verwijderd"},
	KeyCreated:      {"Créé", "Erstellt", "Creado", "Aangemaakt"},
}

var cat = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		_ = b.SetString(language.English, key, key)
		for i, text := range tr {
			_ = b.SetString(Supported[i+1], key, text)
		}
	}
	return b
}()

// Translator печатает сообщения на выбранном языке.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// Match подбирает ближайший поддерживаемый язык, например "fr-CA" → fr.
func Match(locale string) language.Tag {
	_, idx, _ := matcher.Match(language.Make(locale))
	return Supported[idx]
}

func New(locale string) *Translator {
	tag := Match(locale)
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Tag — выбранный язык; им же сравниваются строки при сортировке.
func (t *Translator) Tag() language.Tag { return t.tag }

func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

func (t *Translator) Status(s model.Status) string {
	if k, ok := statusKeys[s]; ok {
		return t.T(k)
	}
	return string(s)
}

func (t *Translator) ItemType(it model.ItemType) string {
	if k, ok := typeKeys[it]; ok {
		return t.T(k)
	}
	return string(it)
}
