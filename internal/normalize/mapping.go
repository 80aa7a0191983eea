package normalize

import "github.com/jonathan/blyn/internal/types"

// FieldMapping lists, for each Profile field, the alias paths tried in order in a raw
// payload. The first path holding a non-empty value wins. Paths use gjson syntax.
type FieldMapping struct {
	Name         []string
	Role         []string
	Location     []string
	Email        []string
	Phone        []string
	ProfilePhoto []string
	Skills       []string
	Achievements []string
	Experience   ExperienceMapping
	Education    EducationMapping
	// FreeText enables splitting of delimited string answers for skills,
	// education, work experience and achievements.
	FreeText bool
}

// ExperienceMapping lists alias paths for the experience list and its entry fields.
type ExperienceMapping struct {
	List        []string
	Company     []string
	Position    []string
	StartDate   []string
	EndDate     []string
	Description []string
	// DateRange holds "start – end" strings used when the dates are not given separately.
	DateRange []string
}

// EducationMapping lists alias paths for the education list and its entry fields.
type EducationMapping struct {
	List           []string
	Institution    []string
	Degree         []string
	Field          []string // joined onto the degree as "degree, field"
	GraduationDate []string
	DateRange      []string // graduation date is the end of the range
}

var contactPaths = struct {
	email, phone, photo []string
}{
	email: []string{"email", "contact.email", "contactInfo.email"},
	phone: []string{"phone", "contact.phone", "contactInfo.phone"},
	photo: []string{"profilePhoto", "photo", "photoUrl"},
}

// Mappings holds the field-mapping table of every source kind.
var Mappings = map[types.SourceKind]FieldMapping{
	types.SourceDocument: {
		Name:         []string{"name", "fullName"},
		Role:         []string{"role", "title", "headline"},
		Location:     []string{"location"},
		Email:        contactPaths.email,
		Phone:        contactPaths.phone,
		ProfilePhoto: contactPaths.photo,
		Skills:       []string{"skills"},
		Achievements: []string{"achievements"},
		Experience: ExperienceMapping{
			List:        []string{"workExperience", "experience"},
			Company:     []string{"company", "companyName"},
			Position:    []string{"position", "title"},
			StartDate:   []string{"startDate"},
			EndDate:     []string{"endDate"},
			Description: []string{"description"},
		},
		Education: EducationMapping{
			List:           []string{"education"},
			Institution:    []string{"institution", "school"},
			Degree:         []string{"degree"},
			GraduationDate: []string{"graduationDate", "endDate"},
		},
	},
	types.SourceScrapedProfile: {
		Name:         []string{"name", "fullName"},
		Role:         []string{"role", "headline"},
		Location:     []string{"location"},
		Email:        contactPaths.email,
		Phone:        contactPaths.phone,
		ProfilePhoto: []string{"profilePhoto", "photo", "profilePicture"},
		Skills:       []string{"skills"},
		Achievements: []string{"achievements", "accomplishments"},
		Experience: ExperienceMapping{
			List:        []string{"experience", "workExperience"},
			Company:     []string{"company", "companyName"},
			Position:    []string{"position", "title"},
			StartDate:   []string{"startDate"},
			EndDate:     []string{"endDate"},
			Description: []string{"description"},
			DateRange:   []string{"dateRange"},
		},
		Education: EducationMapping{
			List:           []string{"education"},
			Institution:    []string{"school", "institution"},
			Degree:         []string{"degree"},
			Field:          []string{"field", "fieldOfStudy"},
			GraduationDate: []string{"graduationDate", "endDate"},
			DateRange:      []string{"dateRange"},
		},
	},
	types.SourceQuestionnaire: {
		Name:         []string{"name", "fullName"},
		Role:         []string{"role", "title", "currentRole"},
		Location:     []string{"location"},
		Email:        contactPaths.email,
		Phone:        contactPaths.phone,
		ProfilePhoto: contactPaths.photo,
		Skills:       []string{"skills"},
		Achievements: []string{"achievements"},
		Experience: ExperienceMapping{
			List:        []string{"workExperience", "experience"},
			Company:     []string{"company"},
			Position:    []string{"position", "title"},
			StartDate:   []string{"startDate"},
			EndDate:     []string{"endDate"},
			Description: []string{"description"},
		},
		Education: EducationMapping{
			List:           []string{"education"},
			Institution:    []string{"institution", "school"},
			Degree:         []string{"degree"},
			GraduationDate: []string{"graduationDate", "endDate"},
		},
		FreeText: true,
	},
}
