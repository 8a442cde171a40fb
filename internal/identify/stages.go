package identify

// verdict is what a stage does with a match count.
type verdict int

const (
	// proceed hands over to the next stage.
	proceed verdict = iota
	notFound
	multiple
	// disambiguate narrows the candidates with the description words.
	disambiguate
	// trustRego ends with NotFound unless the rego came from a low-confidence source.
	trustRego
	// blankCheck proceeds when every candidate of the base criteria has a blank
	// description and ends with NotFound otherwise.
	blankCheck
)

// stage describes one step of the cascade. A stage applies when every required field
// is non-empty, every absent field is empty, and, with requireWords, the description
// has at least one word. Its criteria are the required fields, the non-empty optional
// fields, and the description words when words is set.
type stage struct {
	name         string
	required     []Field
	absent       []Field
	optional     []Field
	words        bool
	requireWords bool
	onZero       verdict
	onMany       verdict
	unresolved   verdict
	skipRepeat   bool
}

var (
	mk    = FieldMake
	model = FieldModel
	badge = FieldBadge
	rego  = FieldRego
	loc   = FieldLocation
)

// cascade is the ordered resolution procedure.
var cascade = append([]stage{
	{
		name:     "rego",
		required: []Field{rego},
		onZero:   trustRego,
		onMany:   multiple,
	},
	{
		name:     "make",
		required: []Field{mk},
		onZero:   notFound,
		onMany:   proceed,
	},
	{
		name:       "make+model",
		required:   []Field{mk, model},
		absent:     []Field{badge},
		onZero:     notFound,
		onMany:     disambiguate,
		unresolved: multiple,
	},
	{
		name:       "make+model (badge known)",
		required:   []Field{mk, model, badge},
		onZero:     notFound,
		onMany:     disambiguate,
		unresolved: proceed,
	},
	{
		name:       "model",
		required:   []Field{model},
		absent:     []Field{mk},
		onZero:     notFound,
		onMany:     disambiguate,
		unresolved: multiple,
	},
	{
		name:       "make+badge",
		required:   []Field{mk, badge},
		absent:     []Field{model},
		onZero:     notFound,
		onMany:     disambiguate,
		unresolved: multiple,
	},
	{
		name:       "make+model+badge",
		required:   []Field{mk, model, badge},
		onZero:     proceed,
		onMany:     disambiguate,
		unresolved: multiple,
	},
	{
		name:         "best effort",
		optional:     []Field{mk, model, badge},
		words:        true,
		requireWords: true,
		onZero:       blankCheck,
		onMany:       multiple,
	},
}, locationLevels()...)

// locationLevels relaxes the criteria one field at a time while holding the location.
// Levels whose criteria repeat an earlier level are skipped at run time.
func locationLevels() []stage {
	levels := []struct {
		fields []Field
		words  bool
	}{
		{[]Field{mk, model, badge}, true},
		{[]Field{mk, model, badge}, false},
		{[]Field{mk, model}, true},
		{[]Field{mk, model}, false},
		{[]Field{mk, badge}, true},
		{[]Field{mk, badge}, false},
		{[]Field{mk}, true},
		{[]Field{mk}, false},
		{nil, true},
		{nil, false},
	}

	stages := make([]stage, len(levels))
	for i, l := range levels {
		stages[i] = stage{
			name:       "location",
			required:   []Field{loc},
			optional:   l.fields,
			words:      l.words,
			onZero:     proceed,
			onMany:     multiple,
			skipRepeat: true,
		}
	}
	return stages
}

// criteria builds the stage's query for q, or reports that the stage does not apply.
func (s stage) criteria(q query) (Criteria, bool) {
	for _, f := range s.absent {
		if q.fields[f] != "" {
			return Criteria{}, false
		}
	}

	for _, f := range s.required {
		if q.fields[f] == "" {
			return Criteria{}, false
		}
	}

	if s.requireWords && len(q.words) == 0 {
		return Criteria{}, false
	}

	var c Criteria
	for _, f := range s.optional {
		if v := q.fields[f]; v != "" {
			c.All = append(c.All, Condition{Field: f, Value: v})
		}
	}
	for _, f := range s.required {
		c.All = append(c.All, Condition{Field: f, Value: q.fields[f]})
	}

	if s.words {
		c.Words = q.words
	}
	return c, true
}
