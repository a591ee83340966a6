package knowledge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nmoreira/supportchat/internal/model/knowledge"
)

// Keyword lists drive every inclusion decision. Matching is case-insensitive
// substring containment against the user query; the lists cover the accented
// and unaccented spellings users actually type.
var (
	companyKeywords = []string{
		"empresa", "compañía", "about", "acerca", "quiénes", "quienes",
	}

	contactKeywords = []string{
		"contacto", "email", "correo", "teléfono", "telefono",
		"dirección", "direccion", "ubicación", "ubicacion",
	}

	// Queries that hint the user may need to reach out. Contact info is
	// deliberately over-included so the model can offer it as a fallback.
	contactSuggestionKeywords = []string{
		"consultar", "contactar", "preguntar", "información", "informacion",
		"detalle", "detalles", "específico", "especifico",
		"personalizado", "personalizada", "cotización", "cotizacion",
		"precio", "costo",
	}

	productKeywords = []string{
		"producto", "servicio", "ofrecen", "venden", "precio",
	}
)

// faqBucket ties a topic keyword list to the anchor terms that must appear
// in an FAQ question for the bucket to claim it. Buckets are checked before
// the bag-of-words fallback so curated topics win over noisy word overlap.
type faqBucket struct {
	keywords []string
	anchors  []string
}

var faqBuckets = []faqBucket{
	{
		keywords: []string{"horario", "hora", "abierto", "atienden", "atención", "disponible", "disponibilidad", "cuando"},
		anchors:  []string{"horario"},
	},
	{
		keywords: []string{"soporte", "técnico", "domicilio", "visita", "presencial", "remoto"},
		anchors:  []string{"soporte técnico"},
	},
	{
		keywords: []string{"desarrollo", "aplicación", "app", "software", "tiempo", "duración", "tarda"},
		anchors:  []string{"desarrollar"},
	},
	{
		keywords: []string{"exterior", "extranjero", "internacional", "fuera", "otro país"},
		anchors:  []string{"exterior"},
	},
	{
		keywords: []string{"chatbot", "chat", "bot", "asistente virtual", "asistente", "virtual", "corporativo", "automatizado", "automatización", "conversacional"},
		anchors:  []string{"chatbot", "bot"},
	},
}

// Unicode-aware so accented Spanish words tokenize whole.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// CompanyInfo is the identity slice of the document.
type CompanyInfo struct {
	Title       string
	Description string
	About       string
	SiteURL     string
}

// Empty reports whether no identity field is populated.
func (c CompanyInfo) Empty() bool {
	return c.Title == "" && c.Description == "" && c.About == "" && c.SiteURL == ""
}

// Result groups the document subsets matched for one query.
type Result struct {
	CompanyInfo CompanyInfo
	Contact     knowledge.ContactInfo
	Products    []knowledge.Product
	Sections    map[string]string
	FAQs        []knowledge.FAQ
}

// Empty reports whether nothing matched.
func (r Result) Empty() bool {
	return r.CompanyInfo.Empty() && r.Contact.Empty() &&
		len(r.Products) == 0 && len(r.Sections) == 0 && len(r.FAQs) == 0
}

// Retriever answers free-text queries against a loaded knowledge document.
type Retriever struct {
	doc knowledge.Document
}

// NewRetriever wraps the document; the document is never mutated.
func NewRetriever(doc knowledge.Document) *Retriever {
	return &Retriever{doc: doc}
}

// CompanyName returns the document title, or "" when the document is empty.
func (r *Retriever) CompanyName() string {
	return strings.TrimSpace(r.doc.Title)
}

// Search returns the subset of the document relevant to the query.
func (r *Retriever) Search(query string) Result {
	query = strings.ToLower(query)
	res := Result{Sections: make(map[string]string)}

	if containsAny(query, companyKeywords) {
		res.CompanyInfo = CompanyInfo{
			Title:       r.doc.Title,
			Description: r.doc.Description,
			About:       r.doc.About,
			SiteURL:     r.doc.SiteURL,
		}
	}

	if containsAny(query, contactKeywords) || containsAny(query, contactSuggestionKeywords) {
		res.Contact = r.doc.Contact
	}

	if containsAny(query, productKeywords) {
		res.Products = append([]knowledge.Product(nil), r.doc.Products...)
	} else {
		// No generic product term: include only products named in the query.
		for _, p := range r.doc.Products {
			if name := strings.ToLower(p.Name); name != "" && strings.Contains(query, name) {
				res.Products = append(res.Products, p)
			}
		}
	}

	for name, content := range r.doc.Sections {
		if strings.Contains(query, strings.ToLower(name)) {
			res.Sections[name] = content
		}
	}

	activeBuckets := make([]bool, len(faqBuckets))
	for i, b := range faqBuckets {
		activeBuckets[i] = containsAny(query, b.keywords)
	}
	queryWords := wordSet(query)

	for _, faq := range r.doc.FAQs {
		question := strings.ToLower(faq.Question)

		if matchesBucket(question, activeBuckets) {
			res.FAQs = append(res.FAQs, faq)
			continue
		}

		// General fallback: at least two words shared between question
		// and query.
		if overlap(wordSet(question), queryWords) >= 2 {
			res.FAQs = append(res.FAQs, faq)
		}
	}

	return res
}

// FormatForContext renders the matched subsets as labeled plain-text blocks
// suitable for insertion into a prompt. Returns "" when nothing matched.
func (r *Retriever) FormatForContext(query string) string {
	res := r.Search(query)
	var parts []string

	if ci := res.CompanyInfo; !ci.Empty() {
		parts = append(parts, fmt.Sprintf("Información de la empresa:\n%s: %s\n%s", ci.Title, ci.Description, ci.About))
	}

	if c := res.Contact; !c.Empty() {
		var b strings.Builder
		b.WriteString("Información de contacto:\n")
		if len(c.Email) > 0 {
			fmt.Fprintf(&b, "Email: %s\n", strings.Join(c.Email, ", "))
		}
		if len(c.Phone) > 0 {
			fmt.Fprintf(&b, "Teléfono: %s\n", strings.Join(c.Phone, ", "))
		}
		if len(c.Address) > 0 {
			fmt.Fprintf(&b, "Dirección: %s", strings.Join(c.Address, ", "))
		}
		parts = append(parts, b.String())
	}

	if len(res.Products) > 0 {
		var b strings.Builder
		b.WriteString("Productos/Servicios:\n")
		for _, p := range res.Products {
			fmt.Fprintf(&b, "- %s: %s (Precio: %s)\n", p.Name, p.Description, p.Price)
		}
		parts = append(parts, b.String())
	}

	if len(res.Sections) > 0 {
		names := make([]string, 0, len(res.Sections))
		for name := range res.Sections {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("Información adicional:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "%s: %s\n", name, res.Sections[name])
		}
		parts = append(parts, b.String())
	}

	if len(res.FAQs) > 0 {
		var b strings.Builder
		b.WriteString("Preguntas frecuentes:\n")
		for _, faq := range res.FAQs {
			fmt.Fprintf(&b, "P: %s\nR: %s\n", faq.Question, faq.Answer)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

func containsAny(query string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

func matchesBucket(question string, active []bool) bool {
	for i, b := range faqBuckets {
		if !active[i] {
			continue
		}
		for _, anchor := range b.anchors {
			if strings.Contains(question, anchor) {
				return true
			}
		}
	}
	return false
}

func wordSet(s string) map[string]struct{} {
	words := wordPattern.FindAllString(s, -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
