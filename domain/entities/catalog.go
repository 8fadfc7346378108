package entities

// Doctor is an in-person consultation option
type Doctor struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Rating          float64 `json:"rating"`
	Reviews         int     `json:"reviews"`
	Distance        string  `json:"distance"`
	Availability    string  `json:"availability"`
	ConsultationFee int     `json:"consultation_fee"`
	Hospital        string  `json:"hospital"`
	Address         string  `json:"address"`
	Phone           string  `json:"phone"`
}

// TeleconsultDoctor is a remote consultation option
type TeleconsultDoctor struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	Rating          float64  `json:"rating"`
	Reviews         int      `json:"reviews"`
	Availability    string   `json:"availability"`
	ConsultationFee int      `json:"consultation_fee"`
	Languages       []string `json:"languages"`
	Experience      string   `json:"experience"`
}

// Medicine is an over-the-counter or prescription suggestion
type Medicine struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	GenericName       string   `json:"generic_name"`
	Dosage            string   `json:"dosage"`
	Duration          string   `json:"duration"`
	Price             string   `json:"price"`
	Prescription      bool     `json:"prescription"`
	SideEffects       []string `json:"side_effects"`
	Contraindications []string `json:"contraindications"`
}

// Pharmacy is a nearby store
type Pharmacy struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Distance string  `json:"distance"`
	Rating   float64 `json:"rating"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Hours    string  `json:"hours"`
	Delivery bool    `json:"delivery"`
	InStock  bool    `json:"in_stock"`
}

// Assessment is the canned diagnosis shown for a health type
type Assessment struct {
	Condition       string   `json:"condition"`
	Confidence      int      `json:"confidence"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
	RedFlags        []string `json:"red_flags"`
}

// Catalog is the read-only fixture data consumed by the results stage
type Catalog struct {
	Assessments        map[HealthType]Assessment `json:"assessments"`
	NearbyDoctors      []Doctor                  `json:"nearby_doctors"`
	TeleconsultDoctors []TeleconsultDoctor       `json:"teleconsult_doctors"`
	Medicines          []Medicine                `json:"medicines"`
	Pharmacies         []Pharmacy                `json:"pharmacies"`
}
