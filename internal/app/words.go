package app

import (
	"math/rand"
	"strings"
)

// Secret word pools for shared-turn rooms, keyed by room language. Duel
// rooms don't use these; there the players bring their own words.
var secretWords = map[string][]string{
	"en": {
		"CRANE", "SLATE", "AUDIO", "HOUSE", "PLANT",
		"BRICK", "GHOST", "LEMON", "MUSIC", "OCEAN",
		"PIANO", "QUIET", "RIVER", "STONE", "TIGER",
		"UNITY", "VIVID", "WHALE", "YOUTH", "ZEBRA",
		"BREAD", "CLOUD", "DREAM", "EARTH", "FLAME",
		"GRAPE", "HEART", "IVORY", "JUICE", "KNIFE",
		"LIGHT", "MONTH", "NIGHT", "OPERA", "PEARL",
		"QUEEN", "ROBIN", "SUGAR", "TRAIN", "ULTRA",
		"VOICE", "WATER", "AMBER", "BLAZE", "CIDER",
		"DAISY", "EAGLE", "FROST", "GLOBE", "HONEY",
	},
	"it": {
		"AMICO", "BACIO", "CALDO", "DONNA", "ESTRO",
		"FORNO", "GATTO", "CUORE", "LUNGO", "MONDO",
		"NOTTE", "ONORE", "SOGNO", "PASTA", "QUOTA",
		"RAGNO", "SALTO", "TERRA", "UMIDO", "VERDE",
		"ZAINO", "ACQUA", "BANCO", "CAMPO", "DOLCE",
		"FESTA", "GIOCO", "LIBRO", "VENTO", "NONNA",
		"OMBRA", "PIANO", "ROCCA", "SENSO", "TORRE",
		"UNICO", "BARCA", "ALTRO", "BOSCO", "CARTA",
		"DENTE", "FUOCO", "FIORE", "LARGO", "MONTE",
		"FIUME", "PONTE", "RESTO", "SOLCO", "TEMPO",
	},
}

// DefaultLanguage is used when a room is created with an unknown language.
const DefaultLanguage = "it"

// RandomWord picks a secret word from the pool for the given language.
func RandomWord(language string) string {
	pool, ok := secretWords[strings.ToLower(language)]
	if !ok {
		pool = secretWords[DefaultLanguage]
	}
	return pool[rand.Intn(len(pool))]
}

// RandomWordExcluding picks a word different from the excluded one, so a
// rematch never reuses the previous secret. Falls back to any word if the
// pool is too small.
func RandomWordExcluding(language, excluded string) string {
	for attempts := 0; attempts < 50; attempts++ {
		word := RandomWord(language)
		if word != excluded {
			return word
		}
	}
	return RandomWord(language)
}
