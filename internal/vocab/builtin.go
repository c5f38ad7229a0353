package vocab

// Muscle group names used by split inference.
const (
	Chest      = "chest"
	Triceps    = "triceps"
	FrontDelts = "front_delts"
	SideDelts  = "side_delts"
	RearDelts  = "rear_delts"
	Lats       = "lats"
	Biceps     = "biceps"
	Traps      = "traps"
	Quads      = "quads"
	Hamstrings = "hamstrings"
	Glutes     = "glutes"
	Calves     = "calves"
	LowerBack  = "lower_back"
	Core       = "core"
)

// Builtin is the default exercise table.
var Builtin = []Entry{
	// Push
	{Name: "Bankdrücken", Aliases: []string{"bank", "bankdruecken", "bankdrücken lh", "bench", "bench press", "flachbank"}, MuscleGroups: []string{Chest, Triceps, FrontDelts}},
	{Name: "Schrägbankdrücken", Aliases: []string{"schrägbank", "schraegbankdruecken", "incline bench", "incline bench press"}, MuscleGroups: []string{Chest, FrontDelts, Triceps}},
	{Name: "Kurzhantel Bankdrücken", Aliases: []string{"kh bankdrücken", "kh bank", "db bench", "dumbbell bench press"}, MuscleGroups: []string{Chest, Triceps, FrontDelts}},
	{Name: "Schulterdrücken", Aliases: []string{"schulterdruecken", "ohp", "overhead press", "military press", "shoulder press"}, MuscleGroups: []string{FrontDelts, SideDelts, Triceps}},
	{Name: "Dips", Aliases: []string{"dip", "barrendips"}, MuscleGroups: []string{Chest, Triceps, FrontDelts}},
	{Name: "Butterfly", Aliases: []string{"flys", "flyes", "chest fly", "pec deck"}, MuscleGroups: []string{Chest}},
	{Name: "Seitheben", Aliases: []string{"lateral raise", "lateral raises", "seitenheben"}, MuscleGroups: []string{SideDelts}},
	{Name: "Trizepsdrücken", Aliases: []string{"trizeps", "trizepsdruecken", "pushdown", "pushdowns", "triceps pushdown"}, MuscleGroups: []string{Triceps}},
	{Name: "Liegestütze", Aliases: []string{"liegestuetze", "push ups", "pushups", "push-ups"}, MuscleGroups: []string{Chest, Triceps, FrontDelts}},

	// Pull
	{Name: "Klimmzüge", Aliases: []string{"klimmzug", "klimmzuege", "pull ups", "pullups", "pull-ups", "chin ups"}, MuscleGroups: []string{Lats, Biceps, RearDelts}},
	{Name: "Latzug", Aliases: []string{"lat pulldown", "latziehen", "lat zug"}, MuscleGroups: []string{Lats, Biceps}},
	{Name: "Langhantelrudern", Aliases: []string{"rudern", "lh rudern", "barbell row", "bent over row", "vorgebeugtes rudern"}, MuscleGroups: []string{Lats, RearDelts, Biceps, Traps}},
	{Name: "Kabelrudern", Aliases: []string{"cable row", "seated row", "rudern am kabel"}, MuscleGroups: []string{Lats, RearDelts, Biceps}},
	{Name: "Face Pulls", Aliases: []string{"face pull", "facepulls"}, MuscleGroups: []string{RearDelts, Traps}},
	{Name: "Bizepscurls", Aliases: []string{"curls", "curl", "bizeps curls", "bicep curls", "biceps curls", "kh curls"}, MuscleGroups: []string{Biceps}},
	{Name: "Hammercurls", Aliases: []string{"hammer curls", "hammer curl"}, MuscleGroups: []string{Biceps}},
	{Name: "Shrugs", Aliases: []string{"schulterheben"}, MuscleGroups: []string{Traps}},

	// Legs
	{Name: "Kniebeugen", Aliases: []string{"kniebeuge", "squat", "squats", "back squat"}, MuscleGroups: []string{Quads, Glutes, Hamstrings}},
	{Name: "Frontkniebeugen", Aliases: []string{"front squat", "front squats"}, MuscleGroups: []string{Quads, Glutes}},
	{Name: "Kreuzheben", Aliases: []string{"deadlift", "deadlifts"}, MuscleGroups: []string{Hamstrings, Glutes, LowerBack}},
	{Name: "Rumänisches Kreuzheben", Aliases: []string{"rdl", "romanian deadlift", "rumaenisches kreuzheben"}, MuscleGroups: []string{Hamstrings, Glutes, LowerBack}},
	{Name: "Beinpresse", Aliases: []string{"leg press", "beinpressen"}, MuscleGroups: []string{Quads, Glutes}},
	{Name: "Ausfallschritte", Aliases: []string{"lunges", "ausfallschritt", "walking lunges"}, MuscleGroups: []string{Quads, Glutes}},
	{Name: "Bulgarian Split Squats", Aliases: []string{"bulgarian split squat", "bss", "bulgarische kniebeugen"}, MuscleGroups: []string{Quads, Glutes}},
	{Name: "Hip Thrust", Aliases: []string{"hip thrusts", "hipthrust"}, MuscleGroups: []string{Glutes, Hamstrings}},
	{Name: "Beinstrecker", Aliases: []string{"leg extension", "leg extensions"}, MuscleGroups: []string{Quads}},
	{Name: "Beinbeuger", Aliases: []string{"leg curl", "leg curls"}, MuscleGroups: []string{Hamstrings}},
	{Name: "Wadenheben", Aliases: []string{"calf raises", "calf raise", "waden"}, MuscleGroups: []string{Calves}},

	// Core
	{Name: "Plank", Aliases: []string{"unterarmstütz", "planks"}, MuscleGroups: []string{Core}},
	{Name: "Crunches", Aliases: []string{"crunch", "sit ups", "situps"}, MuscleGroups: []string{Core}},
}

// Default returns a Vocabulary built from Builtin.
func Default() *Vocabulary {
	return New(Builtin)
}
