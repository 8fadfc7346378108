package adapters

import (
	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

// StaticCatalog serves fixed fixture data. Every call returns a fresh copy so
// callers can never modify the shared fixtures.
type StaticCatalog struct {
	build func() entities.Catalog
}

var _ repositories.CatalogProvider = (*StaticCatalog)(nil)

// NewStaticCatalog creates the built-in demo catalog
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{build: demoCatalog}
}

// NewStaticCatalogFrom serves a caller supplied catalog
func NewStaticCatalogFrom(c entities.Catalog) *StaticCatalog {
	return &StaticCatalog{build: func() entities.Catalog { return copyCatalog(c) }}
}

func (s *StaticCatalog) Catalog() entities.Catalog {
	return s.build()
}

func copyCatalog(c entities.Catalog) entities.Catalog {
	out := entities.Catalog{
		Assessments:        make(map[entities.HealthType]entities.Assessment, len(c.Assessments)),
		NearbyDoctors:      append([]entities.Doctor(nil), c.NearbyDoctors...),
		TeleconsultDoctors: make([]entities.TeleconsultDoctor, len(c.TeleconsultDoctors)),
		Medicines:          make([]entities.Medicine, len(c.Medicines)),
		Pharmacies:         append([]entities.Pharmacy(nil), c.Pharmacies...),
	}
	for k, a := range c.Assessments {
		a.Recommendations = append([]string(nil), a.Recommendations...)
		a.RedFlags = append([]string(nil), a.RedFlags...)
		out.Assessments[k] = a
	}
	for i, d := range c.TeleconsultDoctors {
		d.Languages = append([]string(nil), d.Languages...)
		out.TeleconsultDoctors[i] = d
	}
	for i, m := range c.Medicines {
		m.SideEffects = append([]string(nil), m.SideEffects...)
		m.Contraindications = append([]string(nil), m.Contraindications...)
		out.Medicines[i] = m
	}
	return out
}

func demoCatalog() entities.Catalog {
	return entities.Catalog{
		Assessments: map[entities.HealthType]entities.Assessment{
			entities.HealthTypePhysical: {
				Condition:  "Tension Headache with Mild Fever",
				Confidence: 85,
				Severity:   "Mild to Moderate",
				Recommendations: []string{
					"Rest and adequate hydration",
					"Over-the-counter pain relief if needed",
					"Monitor symptoms for 24-48 hours",
					"Consult a doctor if symptoms worsen",
				},
				RedFlags: []string{
					"Severe or worsening headache",
					"High fever (>101°F)",
					"Neck stiffness",
					"Vision changes",
				},
			},
			entities.HealthTypeMental: {
				Condition:  "Mild Anxiety with Sleep Disturbance",
				Confidence: 85,
				Severity:   "Mild to Moderate",
				Recommendations: []string{
					"Rest and adequate hydration",
					"Keep a regular sleep schedule",
					"Monitor symptoms for 24-48 hours",
					"Consult a doctor if symptoms worsen",
				},
				RedFlags: []string{
					"Thoughts of self harm",
					"Panic attacks",
					"Inability to sleep for several nights",
					"Withdrawal from daily activities",
				},
			},
		},
		NearbyDoctors: []entities.Doctor{
			{ID: 1, Name: "Dr. Priya Sharma", Specialization: "General Physician", Rating: 4.8, Reviews: 245, Distance: "0.8 km", Availability: "Available Now", ConsultationFee: 500, Hospital: "Apollo Clinic", Address: "Sector 15, Gurgaon", Phone: "+91 98765 43210"},
			{ID: 2, Name: "Dr. Rajesh Kumar", Specialization: "Internal Medicine", Rating: 4.6, Reviews: 189, Distance: "1.2 km", Availability: "Next Available: 2:30 PM", ConsultationFee: 600, Hospital: "Max Healthcare", Address: "DLF Phase 2, Gurgaon", Phone: "+91 98765 43211"},
			{ID: 3, Name: "Dr. Anita Patel", Specialization: "Family Medicine", Rating: 4.9, Reviews: 312, Distance: "1.5 km", Availability: "Available Today", ConsultationFee: 450, Hospital: "Fortis Hospital", Address: "Sector 44, Gurgaon", Phone: "+91 98765 43212"},
		},
		TeleconsultDoctors: []entities.TeleconsultDoctor{
			{ID: 1, Name: "Dr. Amit Singh", Specialization: "General Physician", Rating: 4.7, Reviews: 156, Availability: "Available Now", ConsultationFee: 300, Languages: []string{"English", "Hindi"}, Experience: "8 years"},
			{ID: 2, Name: "Dr. Meera Joshi", Specialization: "Internal Medicine", Rating: 4.8, Reviews: 203, Availability: "Next Available: 1:00 PM", ConsultationFee: 400, Languages: []string{"English", "Hindi", "Marathi"}, Experience: "12 years"},
		},
		Medicines: []entities.Medicine{
			{ID: 1, Name: "Paracetamol 500mg", GenericName: "Acetaminophen", Dosage: "1 tablet every 6 hours", Duration: "3-5 days", Price: "₹25", SideEffects: []string{"Nausea", "Stomach upset"}, Contraindications: []string{"Liver disease"}},
			{ID: 2, Name: "Ibuprofen 400mg", GenericName: "Ibuprofen", Dosage: "1 tablet every 8 hours", Duration: "3-5 days", Price: "₹35", SideEffects: []string{"Stomach irritation", "Dizziness"}, Contraindications: []string{"Kidney disease", "Heart conditions"}},
		},
		Pharmacies: []entities.Pharmacy{
			{ID: 1, Name: "Apollo Pharmacy", Distance: "0.5 km", Rating: 4.5, Address: "Sector 14, Gurgaon", Phone: "+91 98765 43220", Hours: "24/7", Delivery: true, InStock: true},
			{ID: 2, Name: "MedPlus", Distance: "0.7 km", Rating: 4.3, Address: "DLF Phase 1, Gurgaon", Phone: "+91 98765 43221", Hours: "8 AM - 10 PM", Delivery: true, InStock: true},
			{ID: 3, Name: "1mg Store", Distance: "1.1 km", Rating: 4.6, Address: "Sector 29, Gurgaon", Phone: "+91 98765 43222", Hours: "9 AM - 9 PM"},
		},
	}
}
