package profile

import (
	"strings"
	"time"
)

// HealthProfile is the user's self-declared conditions and goals
type HealthProfile struct {
	UserID     string    `json:"user_id"`
	Conditions []string  `json:"conditions"`
	Goals      []string  `json:"goals"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Condition tags
const (
	ConditionDiabetes            = "diabetes"
	ConditionHypertension        = "hipertension"
	ConditionNoGallbladder       = "sin_vesicula"
	ConditionLactoseIntolerance  = "intolerancia_lactosa"
	ConditionCeliac              = "celiaquia"
	ConditionHighCholesterol     = "colesterol_alto"
	ConditionGastritis           = "gastritis"
	ConditionReflux              = "reflujo"
	ConditionIrritableBowel      = "colon_irritable"
	ConditionHypothyroidism      = "hipotiroidismo"
	ConditionHyperthyroidism     = "hipertiroidismo"
	ConditionAnemia              = "anemia"
	ConditionOsteoporosis        = "osteoporosis"
	ConditionArthritis           = "artritis"
	ConditionFattyLiver          = "higado_graso"
	ConditionKidneyInsufficiency = "insuficiencia_renal"
	ConditionGout                = "gota"
	ConditionFibromyalgia        = "fibromialgia"
	ConditionMigraines           = "migranas"
	ConditionDepression          = "depresion"
	ConditionAnxiety             = "ansiedad"
	ConditionInsomnia            = "insomnio"
	ConditionAcne                = "acne"
	ConditionPsoriasis           = "psoriasis"
	ConditionEczema              = "eczema"
	ConditionMenopause           = "menopausia"
)

// Goal tags
const (
	GoalLoseWeight    = "perder_peso"
	GoalLoseWeightAlt = "bajar_peso"
	GoalGainMuscle    = "ganar_masa_muscular"
	GoalBalancedDiet  = "alimentacion_balanceada"
	GoalReduceSugar   = "reducir_azucar"
	GoalReduceSodium  = "reducir_sodio"
	GoalIncreaseFiber = "aumentar_fibra"
)

// Conditions lists every known condition tag in display order
var Conditions = []string{
	ConditionDiabetes, ConditionHypertension, ConditionNoGallbladder,
	ConditionLactoseIntolerance, ConditionCeliac, ConditionHighCholesterol,
	ConditionGastritis, ConditionReflux, ConditionIrritableBowel,
	ConditionHypothyroidism, ConditionHyperthyroidism, ConditionAnemia,
	ConditionOsteoporosis, ConditionArthritis, ConditionFattyLiver,
	ConditionKidneyInsufficiency, ConditionGout, ConditionFibromyalgia,
	ConditionMigraines, ConditionDepression, ConditionAnxiety,
	ConditionInsomnia, ConditionAcne, ConditionPsoriasis, ConditionEczema,
	ConditionMenopause,
}

// Goals lists every known goal tag in display order
var Goals = []string{
	GoalLoseWeight, GoalGainMuscle, GoalBalancedDiet,
	GoalReduceSugar, GoalReduceSodium, GoalIncreaseFiber,
}

// NormalizeTags trims, lower-cases and deduplicates tags, keeping the
// first occurrence order. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// IsKnownCondition reports whether tag is a recognized condition
func IsKnownCondition(tag string) bool {
	return contains(Conditions, tag)
}

// IsKnownGoal reports whether tag is a recognized goal, including aliases
func IsKnownGoal(tag string) bool {
	return tag == GoalLoseWeightAlt || contains(Goals, tag)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
