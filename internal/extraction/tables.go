package extraction

import "github.com/macrolens/datahunter/internal/domain"

// Field identifies one slot of domain.ExtractedFields
type Field string

const (
	FieldWeight          Field = "weight"
	FieldIngredients     Field = "ingredients"
	FieldAllergens       Field = "allergens"
	FieldMayContain      Field = "may_contain"
	FieldNutritionHeader Field = "nutri_scope"
	FieldEnergy          Field = "energy"
	FieldFat             Field = "fat"
	FieldSaturates       Field = "saturates"
	FieldCarbs           Field = "carbs"
	FieldSugars          Field = "sugars"
	FieldProtein         Field = "protein"
	FieldFiber           Field = "fiber"
	FieldSalt            Field = "salt"
	FieldOrganicID       Field = "organic_id"
)

// SynonymTable maps a field to its label in every supported language
type SynonymTable map[Field]map[domain.Language][]string

// Labels is the default synonym table. Extend it to add a market; the
// extraction machinery is generic over it.
var Labels = SynonymTable{
	FieldIngredients: {
		domain.LangEnglish:    {"ingredients", "ingredient list"},
		domain.LangGerman:     {"zutaten", "zutatenliste", "zutatenverzeichnis"},
		domain.LangFrench:     {"ingrédients", "ingredients", "liste des ingrédients"},
		domain.LangItalian:    {"ingredienti"},
		domain.LangSpanish:    {"ingredientes"},
		domain.LangDutch:      {"ingrediënten", "ingredienten"},
		domain.LangDanish:     {"ingredienser"},
		domain.LangSwedish:    {"ingredienser"},
		domain.LangNorwegian:  {"ingredienser"},
		domain.LangPolish:     {"składniki", "skład"},
		domain.LangPortuguese: {"ingredientes"},
	},
	FieldAllergens: {
		domain.LangEnglish:    {"allergens", "allergen information", "allergy advice", "allergy information"},
		domain.LangGerman:     {"allergene", "allergenhinweis", "allergenhinweise", "allergiehinweis"},
		domain.LangFrench:     {"allergènes", "allergenes"},
		domain.LangItalian:    {"allergeni"},
		domain.LangSpanish:    {"alérgenos", "alergenos"},
		domain.LangDutch:      {"allergenen", "allergie-informatie"},
		domain.LangDanish:     {"allergener"},
		domain.LangSwedish:    {"allergener"},
		domain.LangNorwegian:  {"allergener"},
		domain.LangPolish:     {"alergeny"},
		domain.LangPortuguese: {"alergénios", "alergênicos", "alérgenos"},
	},
	FieldMayContain: {
		domain.LangEnglish:    {"may contain", "may also contain"},
		domain.LangGerman:     {"kann spuren von", "kann spuren", "kann enthalten"},
		domain.LangFrench:     {"peut contenir", "traces éventuelles de", "traces possibles de"},
		domain.LangItalian:    {"può contenere"},
		domain.LangSpanish:    {"puede contener"},
		domain.LangDutch:      {"kan sporen van", "kan sporen bevatten van", "kan bevatten"},
		domain.LangDanish:     {"kan indeholde spor af", "kan indeholde"},
		domain.LangSwedish:    {"kan innehålla spår av", "kan innehålla"},
		domain.LangNorwegian:  {"kan inneholde spor av", "kan inneholde"},
		domain.LangPolish:     {"może zawierać"},
		domain.LangPortuguese: {"pode conter"},
	},
	FieldWeight: {
		domain.LangEnglish:    {"net weight", "net wt", "net contents", "weight"},
		domain.LangGerman:     {"nettogewicht", "nettofüllmenge", "füllmenge", "inhalt", "gewicht"},
		domain.LangFrench:     {"poids net", "poids", "contenance"},
		domain.LangItalian:    {"peso netto", "peso"},
		domain.LangSpanish:    {"peso neto", "peso"},
		domain.LangDutch:      {"netto gewicht", "nettogewicht", "inhoud", "gewicht"},
		domain.LangDanish:     {"nettovægt", "vægt", "indhold"},
		domain.LangSwedish:    {"nettovikt", "vikt", "innehåll"},
		domain.LangNorwegian:  {"nettovekt", "vekt", "innhold"},
		domain.LangPolish:     {"masa netto", "waga netto", "waga"},
		domain.LangPortuguese: {"peso líquido", "peso"},
	},
	FieldEnergy: {
		domain.LangEnglish:    {"energy", "energy value", "calories"},
		domain.LangGerman:     {"energie", "brennwert", "energiewert"},
		domain.LangFrench:     {"énergie", "energie", "valeur énergétique"},
		domain.LangItalian:    {"energia", "valore energetico"},
		domain.LangSpanish:    {"energía", "valor energético"},
		domain.LangDutch:      {"energie", "energetische waarde"},
		domain.LangDanish:     {"energi", "energiindhold"},
		domain.LangSwedish:    {"energi", "energivärde"},
		domain.LangNorwegian:  {"energi", "energiinnhold"},
		domain.LangPolish:     {"energia", "wartość energetyczna"},
		domain.LangPortuguese: {"energia", "valor energético"},
	},
	FieldFat: {
		domain.LangEnglish:    {"fat", "total fat"},
		domain.LangGerman:     {"fett"},
		domain.LangFrench:     {"matières grasses", "lipides"},
		domain.LangItalian:    {"grassi"},
		domain.LangSpanish:    {"grasas"},
		domain.LangDutch:      {"vetten", "vet"},
		domain.LangDanish:     {"fedt"},
		domain.LangSwedish:    {"fett"},
		domain.LangNorwegian:  {"fett"},
		domain.LangPolish:     {"tłuszcz"},
		domain.LangPortuguese: {"lípidos", "gordura", "gorduras", "lipídios"},
	},
	FieldSaturates: {
		domain.LangEnglish:    {"saturates", "saturated fat", "saturated fatty acids", "of which saturates"},
		domain.LangGerman:     {"gesättigte fettsäuren", "davon gesättigte fettsäuren", "davon gesättigte"},
		domain.LangFrench:     {"acides gras saturés", "dont acides gras saturés", "dont saturés"},
		domain.LangItalian:    {"acidi grassi saturi", "di cui acidi grassi saturi"},
		domain.LangSpanish:    {"ácidos grasos saturados", "de las cuales saturadas", "saturadas"},
		domain.LangDutch:      {"verzadigde vetzuren", "waarvan verzadigde vetzuren", "waarvan verzadigd"},
		domain.LangDanish:     {"mættede fedtsyrer", "heraf mættede fedtsyrer"},
		domain.LangSwedish:    {"mättat fett", "varav mättat fett"},
		domain.LangNorwegian:  {"mettede fettsyrer", "hvorav mettede fettsyrer"},
		domain.LangPolish:     {"kwasy tłuszczowe nasycone", "nasycone kwasy tłuszczowe", "w tym kwasy nasycone"},
		domain.LangPortuguese: {"ácidos gordos saturados", "dos quais saturados", "saturados"},
	},
	FieldCarbs: {
		domain.LangEnglish:    {"carbohydrate", "carbohydrates", "carbs", "total carbohydrate"},
		domain.LangGerman:     {"kohlenhydrate"},
		domain.LangFrench:     {"glucides"},
		domain.LangItalian:    {"carboidrati"},
		domain.LangSpanish:    {"hidratos de carbono", "carbohidratos"},
		domain.LangDutch:      {"koolhydraten"},
		domain.LangDanish:     {"kulhydrat", "kulhydrater"},
		domain.LangSwedish:    {"kolhydrat", "kolhydrater"},
		domain.LangNorwegian:  {"karbohydrat", "karbohydrater"},
		domain.LangPolish:     {"węglowodany"},
		domain.LangPortuguese: {"hidratos de carbono", "carboidratos"},
	},
	FieldSugars: {
		domain.LangEnglish:    {"sugars", "sugar", "of which sugars"},
		domain.LangGerman:     {"zucker", "davon zucker"},
		domain.LangFrench:     {"sucres", "dont sucres"},
		domain.LangItalian:    {"zuccheri", "di cui zuccheri"},
		domain.LangSpanish:    {"azúcares", "de los cuales azúcares"},
		domain.LangDutch:      {"suikers", "waarvan suikers"},
		domain.LangDanish:     {"sukkerarter", "heraf sukkerarter", "sukker"},
		domain.LangSwedish:    {"sockerarter", "varav sockerarter", "socker"},
		domain.LangNorwegian:  {"sukkerarter", "hvorav sukkerarter", "sukker"},
		domain.LangPolish:     {"cukry", "w tym cukry"},
		domain.LangPortuguese: {"açúcares", "dos quais açúcares"},
	},
	FieldProtein: {
		domain.LangEnglish:    {"protein", "proteins"},
		domain.LangGerman:     {"eiweiß", "eiweiss", "protein"},
		domain.LangFrench:     {"protéines", "proteines"},
		domain.LangItalian:    {"proteine"},
		domain.LangSpanish:    {"proteínas", "proteinas"},
		domain.LangDutch:      {"eiwitten", "eiwit"},
		domain.LangDanish:     {"protein"},
		domain.LangSwedish:    {"protein"},
		domain.LangNorwegian:  {"protein"},
		domain.LangPolish:     {"białko"},
		domain.LangPortuguese: {"proteínas", "proteinas"},
	},
	FieldFiber: {
		domain.LangEnglish:    {"fibre", "fiber", "dietary fibre", "dietary fiber"},
		domain.LangGerman:     {"ballaststoffe"},
		domain.LangFrench:     {"fibres alimentaires", "fibres"},
		domain.LangItalian:    {"fibre"},
		domain.LangSpanish:    {"fibra alimentaria", "fibra"},
		domain.LangDutch:      {"vezels", "voedingsvezel", "voedingsvezels"},
		domain.LangDanish:     {"kostfibre"},
		domain.LangSwedish:    {"kostfiber", "fiber"},
		domain.LangNorwegian:  {"kostfiber"},
		domain.LangPolish:     {"błonnik"},
		domain.LangPortuguese: {"fibra", "fibras"},
	},
	FieldSalt: {
		domain.LangEnglish:    {"salt"},
		domain.LangGerman:     {"salz"},
		domain.LangFrench:     {"sel"},
		domain.LangItalian:    {"sale"},
		domain.LangSpanish:    {"sal"},
		domain.LangDutch:      {"zout"},
		domain.LangDanish:     {"salt"},
		domain.LangSwedish:    {"salt"},
		domain.LangNorwegian:  {"salt"},
		domain.LangPolish:     {"sól"},
		domain.LangPortuguese: {"sal"},
	},
}

// StopLabels end a free-text capture wherever they appear as whole words.
// Field labels for ingredients, allergens and may-contain are added on top.
var StopLabels = map[domain.Language][]string{
	domain.LangEnglish: {
		"nutrition", "nutritional", "typical values", "best before", "use by",
	},
	domain.LangGerman: {
		"nährwerte", "nährwertangaben", "nährwertinformationen", "nährwert",
		"durchschnittliche nährwerte", "mindestens haltbar",
	},
	domain.LangFrench: {
		"valeurs nutritionnelles", "informations nutritionnelles", "déclaration nutritionnelle",
		"à consommer de préférence",
	},
	domain.LangItalian: {
		"valori nutrizionali", "dichiarazione nutrizionale", "da consumarsi",
	},
	domain.LangSpanish: {
		"información nutricional", "valores nutricionales", "consumir preferentemente",
	},
	domain.LangDutch: {
		"voedingswaarde", "voedingswaarden", "ten minste houdbaar",
	},
	domain.LangDanish: {
		"næringsindhold", "næringsværdi", "mindst holdbar",
	},
	domain.LangSwedish: {
		"näringsvärde", "näringsinnehåll", "bäst före",
	},
	domain.LangNorwegian: {
		"næringsinnhold", "næringsverdi", "best før",
	},
	domain.LangPolish: {
		"wartość odżywcza", "wartości odżywcze", "najlepiej spożyć",
	},
	domain.LangPortuguese: {
		"informação nutricional", "valores nutricionais", "consumir de preferência",
	},
}

// SectionLabels are ordinary words ("strawberry preparation") that only end a
// capture when a separator follows them, as in "Storage: keep dry".
// Energy labels are added on top.
var SectionLabels = map[domain.Language][]string{
	domain.LangEnglish:    {"storage", "store in", "preparation", "directions"},
	domain.LangGerman:     {"aufbewahrung", "zubereitung"},
	domain.LangFrench:     {"conservation", "à conserver", "préparation"},
	domain.LangItalian:    {"conservare", "conservazione", "preparazione"},
	domain.LangSpanish:    {"conservar", "conservación", "preparación"},
	domain.LangDutch:      {"bewaren", "bereiding"},
	domain.LangDanish:     {"opbevaring", "tilberedning"},
	domain.LangSwedish:    {"förvaring", "tillagning"},
	domain.LangNorwegian:  {"oppbevaring", "tilberedning"},
	domain.LangPolish:     {"przechowywać", "przechowywanie", "przygotowanie"},
	domain.LangPortuguese: {"conservar", "conservação", "preparação"},
}

// stopFields contribute their labels to StopLabels, sectionFields to SectionLabels
var (
	stopFields    = []Field{FieldIngredients, FieldAllergens, FieldMayContain}
	sectionFields = []Field{FieldEnergy}
)

// valueFields end a capture when their label is followed by a quantity
// ("Fat 3 g"), unless the label is a list item after a comma
var valueFields = []Field{
	FieldEnergy, FieldFat, FieldSaturates, FieldCarbs, FieldSugars, FieldProtein, FieldFiber, FieldSalt,
}

// saturatedMarkers disqualify a fat label that is really part of a saturates label
var saturatedMarkers = []string{
	"saturated", "saturates", "gesättigt", "saturés", "saturi", "saturad",
	"verzadigd", "mættede", "mättat", "mettede", "nasycon", "saturados", "trans",
}

// Unit alternations. Longer units come first so "kg" wins over "g".
const (
	massUnits   = `mg|g`
	energyUnits = `kj|kcal`
	weightUnits = `kg|g|ml|cl|l|oz`
)

// Caps for free-text captures, in runes
const (
	maxIngredientsLength = 1500
	maxFreeTextLength    = 400
	maxNumericLength     = 40
)

// QueryLabels returns the ingredients label and the nutrition label for lang,
// falling back to English. Search queries use them to reach label text.
func QueryLabels(lang domain.Language) (ingredients, nutrition string) {
	ingredients = firstLabel(Labels[FieldIngredients], lang)
	if stops := StopLabels[lang]; len(stops) > 0 {
		nutrition = stops[0]
	} else {
		nutrition = StopLabels[domain.LangEnglish][0]
	}
	return ingredients, nutrition
}

func firstLabel(byLang map[domain.Language][]string, lang domain.Language) string {
	if labels := byLang[lang]; len(labels) > 0 {
		return labels[0]
	}
	return byLang[domain.LangEnglish][0]
}
