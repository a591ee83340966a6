package knowledge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/nmoreira/supportchat/internal/model/knowledge"
	"github.com/nmoreira/supportchat/internal/service/knowledge"
)

func testDocument() model.Document {
	return model.Document{
		Title:       "Tech Support Argentina",
		Description: "Servicios informáticos integrales",
		About:       "Empresa argentina de soporte técnico y desarrollo",
		SiteURL:     "https://tech-support.com.ar",
		Contact: model.ContactInfo{
			Email:   []string{"info@tech-support.com.ar"},
			Phone:   []string{"+54 11 5555-0000"},
			Address: []string{"Av. Corrientes 1234, CABA"},
		},
		Products: []model.Product{
			{Name: "Soporte remoto", Description: "Asistencia a distancia", Price: "$10000"},
			{Name: "Automatización de procesos", Description: "Bots a medida", Price: "a convenir"},
		},
		Sections: map[string]string{
			"garantía": "30 días en todos los servicios",
		},
		FAQs: []model.FAQ{
			{Question: "¿Cuál es el horario de atención?", Answer: "Lunes a viernes de 9 a 18"},
			{Question: "¿Ofrecen soporte técnico a domicilio?", Answer: "Sí, en CABA y GBA"},
			{Question: "¿Cuánto tardan en desarrollar una aplicación?", Answer: "Depende del alcance"},
			{Question: "¿Trabajan con clientes del exterior?", Answer: "Sí, de forma remota"},
			{Question: "¿Hacen chatbots corporativos?", Answer: "No como servicio estándar"},
			{Question: "¿Emiten factura electrónica por cada trabajo?", Answer: "Sí, siempre"},
		},
	}
}

func TestSearchCompanyInfo(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	res := r.Search("contame sobre la empresa")
	assert.False(t, res.CompanyInfo.Empty())
	assert.Equal(t, "Tech Support Argentina", res.CompanyInfo.Title)

	res = r.Search("hola, qué tal")
	assert.True(t, res.CompanyInfo.Empty())
}

func TestSearchContactKeyword(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	for _, q := range []string{
		"cuál es su email",
		"necesito el teléfono",
		"dónde queda su direccion",
		"quisiera una cotización",
		"necesito un detalle del precio",
	} {
		res := r.Search(q)
		assert.False(t, res.Contact.Empty(), "query %q should include contact info", q)
	}

	res := r.Search("hola")
	assert.True(t, res.Contact.Empty())
}

func TestSearchContactEmptyDocument(t *testing.T) {
	r := knowledge.NewRetriever(model.Document{})

	res := r.Search("necesito el email de contacto")
	assert.True(t, res.Contact.Empty())
}

func TestSearchProductsGenericKeyword(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	res := r.Search("qué servicios ofrecen")
	assert.Len(t, res.Products, 2)
}

func TestSearchProductByName(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	// Exact lower-cased name works without any generic product keyword.
	res := r.Search("me interesa la automatización de procesos")
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Automatización de procesos", res.Products[0].Name)
}

func TestSearchSections(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	res := r.Search("qué garantía tienen los trabajos")
	assert.Equal(t, "30 días en todos los servicios", res.Sections["garantía"])

	res = r.Search("hola")
	assert.Empty(t, res.Sections)
}

func TestSearchFAQBuckets(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	cases := map[string]string{
		"a qué hora están abiertos":     "horario",
		"hacen visitas presenciales":    "soporte técnico",
		"cuánto tarda hacer un software": "desarrollar",
		"atienden clientes del extranjero": "exterior",
		"necesito un asistente virtual": "chatbot",
	}

	for query, anchor := range cases {
		res := r.Search(query)
		found := false
		for _, faq := range res.FAQs {
			if strings.Contains(strings.ToLower(faq.Question), anchor) {
				found = true
				break
			}
		}
		assert.True(t, found, "query %q should match the %q FAQ", query, anchor)
	}
}

func TestSearchFAQWordOverlap(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	// Two shared words ("factura", "electrónica") hit the general fallback.
	res := r.Search("me mandan factura electrónica?")
	found := false
	for _, faq := range res.FAQs {
		if strings.Contains(faq.Question, "factura") {
			found = true
		}
	}
	assert.True(t, found)

	// One shared word ("factura") is not enough.
	res = r.Search("quiero una factura")
	for _, faq := range res.FAQs {
		assert.NotContains(t, faq.Question, "factura")
	}
}

func TestFormatForContextEmptyIffNoMatch(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	assert.Empty(t, r.FormatForContext("zzz qqq"))
	assert.NotEmpty(t, r.FormatForContext("contame sobre la empresa"))

	empty := knowledge.NewRetriever(model.Document{})
	assert.Empty(t, empty.FormatForContext("contame sobre la empresa y su email"))
}

func TestFormatForContextBlocks(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	out := r.FormatForContext("quiénes son y cómo los contacto, qué productos venden, qué garantía dan")

	// Fixed block order: company, contact, products, sections, FAQs.
	companyIdx := strings.Index(out, "Información de la empresa:")
	contactIdx := strings.Index(out, "Información de contacto:")
	productsIdx := strings.Index(out, "Productos/Servicios:")
	sectionsIdx := strings.Index(out, "Información adicional:")

	require.GreaterOrEqual(t, companyIdx, 0)
	require.Greater(t, contactIdx, companyIdx)
	require.Greater(t, productsIdx, contactIdx)
	require.Greater(t, sectionsIdx, productsIdx)

	assert.Contains(t, out, "Email: info@tech-support.com.ar")
	assert.Contains(t, out, "Teléfono: +54 11 5555-0000")
	assert.Contains(t, out, "- Soporte remoto: Asistencia a distancia (Precio: $10000)")
	assert.Contains(t, out, "garantía: 30 días en todos los servicios")
}

func TestFormatForContextFAQPairs(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())

	out := r.FormatForContext("cuál es el horario de atención")
	assert.Contains(t, out, "Preguntas frecuentes:")
	assert.Contains(t, out, "P: ¿Cuál es el horario de atención?")
	assert.Contains(t, out, "R: Lunes a viernes de 9 a 18")
}

func TestCompanyName(t *testing.T) {
	r := knowledge.NewRetriever(testDocument())
	assert.Equal(t, "Tech Support Argentina", r.CompanyName())

	empty := knowledge.NewRetriever(model.Document{})
	assert.Equal(t, "", empty.CompanyName())
}
