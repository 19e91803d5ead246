package rehab

// Prescription is one row of a protocol's loading table.
type Prescription struct {
	Name      string
	Sets      int
	Reps      string
	Rest      string
	Intensity string
}

type Protocol struct {
	Stage         Stage
	Title         string
	Weeks         string
	Goal          string
	Description   string
	Prescriptions []Prescription
}

var protocols = []Protocol{
	{
		Stage:       StageA,
		Title:       "Phase 1: Isometrics",
		Weeks:       "Weeks 1-6",
		Goal:        "Tendon Stress Relaxation",
		Description: "Build base tendon tolerance with sustained isometric holds at 70% MVC. Focus on pain management and neuromuscular activation.",
		Prescriptions: []Prescription{
			{Name: "Wall Squats", Sets: 4, Reps: "45s hold", Rest: "60s", Intensity: "70% MVC"},
			{Name: "Spanish Squat", Sets: 4, Reps: "45s hold", Rest: "60s", Intensity: "70% MVC"},
			{Name: "Leg Extensions", Sets: 4, Reps: "45s hold", Rest: "60s", Intensity: "65% MVC"},
			{Name: "Quad Sets", Sets: 3, Reps: "5s x 10", Rest: "30s", Intensity: "Bodyweight"},
			{Name: "Calf Raises", Sets: 4, Reps: "45s hold", Rest: "60s", Intensity: "70% MVC"},
		},
	},
	{
		Stage:       StageB,
		Title:       "Phase 2: Heavy Slow Resistance",
		Weeks:       "Weeks 5-12",
		Goal:        "Hypertrophy & Remodelling",
		Description: "Introduce slow eccentric-concentric movements at 3-0-3 tempo to build tendon stiffness and cross-sectional area.",
		Prescriptions: []Prescription{
			{Name: "Bulgarian Split Squat", Sets: 4, Reps: "8 reps", Rest: "3 min", Intensity: "3-0-3 tempo"},
			{Name: "Eccentric Heel Drops", Sets: 3, Reps: "10 reps", Rest: "2 min", Intensity: "Slow"},
			{Name: "Leg Press (Single)", Sets: 3, Reps: "12 reps", Rest: "2 min", Intensity: "Moderate"},
			{Name: "Spanish Squat", Sets: 4, Reps: "45s hold", Rest: "60s", Intensity: "75% MVC"},
		},
	},
	{
		Stage:       StageC,
		Title:       "Phase 3: Plyometrics",
		Weeks:       "Weeks 13+",
		Goal:        "Energy Storage Capacity",
		Description: "Develop tendon energy storage through progressive plyometric loading and reactive drills.",
		Prescriptions: []Prescription{
			{Name: "Depth Jump (Low)", Sets: 3, Reps: "6 reps", Rest: "3 min", Intensity: "Min. height"},
			{Name: "Split Squat Jump", Sets: 3, Reps: "8 reps", Rest: "3 min", Intensity: "Bodyweight"},
			{Name: "Single-Leg Hop", Sets: 4, Reps: "10m", Rest: "3 min", Intensity: "Controlled"},
			{Name: "Box Jump", Sets: 3, Reps: "5 reps", Rest: "3 min", Intensity: "Low box"},
		},
	},
	{
		Stage:       StageM,
		Title:       "Maintenance",
		Weeks:       "Ongoing",
		Goal:        "Tendon Health & Bulletproofing",
		Description: "Sustain tendon health with 2-3x weekly loading. Prevent deconditioning and maintain tissue quality long-term.",
		Prescriptions: []Prescription{
			{Name: "Wall Squats", Sets: 3, Reps: "45s hold", Rest: "60s", Intensity: "80% MVC"},
			{Name: "Bulgarian Split Squat", Sets: 3, Reps: "10 reps", Rest: "2 min", Intensity: "Progressive"},
			{Name: "Calf Raise (Single)", Sets: 3, Reps: "15 reps", Rest: "90s", Intensity: "Slow"},
			{Name: "Spanish Squat", Sets: 3, Reps: "45s hold", Rest: "60s", Intensity: "Max load"},
		},
	},
}

// Protocols returns the four phase descriptions in protocol order.
func Protocols() []Protocol {
	out := make([]Protocol, len(protocols))
	for i, p := range protocols {
		p.Prescriptions = append([]Prescription(nil), p.Prescriptions...)
		out[i] = p
	}
	return out
}
