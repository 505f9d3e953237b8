// Package dashboard serves the post-intake content pages: housing options,
// school enrollment, employment support, insurance guidance, recovery
// insights, and the community feed, each shaped by the caller's household
// profile where the page calls for it.
package dashboard

// Shelter is a temporary housing option.
type Shelter struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Distance     string   `json:"distance"`
	Type         string   `json:"type"`
	Availability string   `json:"availability"`
	Phone        string   `json:"phone"`
	Amenities    []string `json:"amenities"`
}

// Rental is a longer-term housing listing.
type Rental struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Rent      int64    `json:"rent"`
	Bedrooms  float64  `json:"bedrooms"`
	Bathrooms float64  `json:"bathrooms"`
	Sqft      int      `json:"sqft"`
	Available string   `json:"available"`
	Features  []string `json:"features"`
}

// School is an enrollment option for displaced students.
type School struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Grades             string   `json:"grades"`
	Address            string   `json:"address"`
	Distance           string   `json:"distance"`
	Rating             float64  `json:"rating"`
	Enrollment         string   `json:"enrollment"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	Students           int      `json:"students"`
	Features           []string `json:"features"`
	AcceptingDisplaced bool     `json:"accepting_displaced"`
	DocumentsRequired  []string `json:"documents_required"`
	StartDate          string   `json:"start_date"`
}

// EnrollmentStep is one step of the school enrollment walkthrough.
type EnrollmentStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SupportResource is a generic assistance pointer with a contact.
type SupportResource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

// EmploymentResource groups related employment guidance links.
type EmploymentResource struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Links       []string `json:"links,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
}

// ResourceInsight is one entry on a recovery insights card.
type ResourceInsight struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// ResourceUpdate is a time-sensitive notice shown under the insight cards.
type ResourceUpdate struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CommunityReply is one response to a community post.
type CommunityReply struct {
	Author  string `json:"author"`
	Posted  string `json:"posted"`
	Content string `json:"content"`
}

// CommunityPost is one entry in the regional support feed.
type CommunityPost struct {
	ID      int              `json:"id"`
	Author  string           `json:"author"`
	Region  string           `json:"region"`
	Posted  string           `json:"posted"`
	Content string           `json:"content"`
	Tags    []string         `json:"tags"`
	Replies []CommunityReply `json:"replies"`
}

// Content is everything the dashboard pages draw from. A Loader produces one
// Content value; profile-specific filtering happens afterwards.
type Content struct {
	TemporaryHousing  []Shelter            `json:"temporary_housing"`
	Rentals           []Rental             `json:"rentals"`
	Schools           []School             `json:"schools"`
	EnrollmentSteps   []EnrollmentStep     `json:"enrollment_steps"`
	SchoolResources   []SupportResource    `json:"school_resources"`
	JobSearch         []EmploymentResource `json:"job_search"`
	Retraining        []EmploymentResource `json:"retraining"`
	Accommodations    []EmploymentResource `json:"accommodations"`
	ClaimNextSteps    map[string][]string  `json:"claim_next_steps"`
	RecoveryTimeline  []ResourceInsight    `json:"recovery_timeline"`
	ImpactAssessment  []ResourceInsight    `json:"impact_assessment"`
	FinancialInsights []ResourceInsight    `json:"financial_insights"`
	SchoolInsights    []ResourceInsight    `json:"school_insights"`
	Updates           []ResourceUpdate     `json:"updates"`
	CommunityRegions  []string             `json:"community_regions"`
	CommunityPosts    []CommunityPost      `json:"community_posts"`
}

// defaultContent mirrors the shipped page data. Deployments that need fresher
// listings point the loader at a content endpoint instead.
func defaultContent() Content {
	return Content{
		TemporaryHousing: []Shelter{
			{
				ID: 1, Name: "Red Cross Emergency Shelter",
				Address: "123 Main Street, Los Angeles, CA 90012", Distance: "2.3 miles",
				Type: "Emergency Shelter", Availability: "Open Now", Phone: "(555) 123-4567",
				Amenities: []string{"Meals provided", "Medical support", "Pet-friendly"},
			},
			{
				ID: 2, Name: "FEMA Temporary Housing",
				Address: "456 Temporary Dr, Los Angeles, CA 90015", Distance: "3.1 miles",
				Type: "Temporary Apartment", Availability: "Application Required", Phone: "1-800-621-3362",
				Amenities: []string{"Furnished", "Utilities included", "3-18 month terms"},
			},
		},
		Rentals: []Rental{
			{
				ID: 3, Name: "Sunset Apartments", Address: "789 Sunset Blvd, Los Angeles, CA 90028",
				Rent: 2400, Bedrooms: 2, Bathrooms: 2, Sqft: 1100, Available: "Feb 1, 2026",
				Features: []string{"Pet-friendly", "Near schools", "Parking included", "Laundry in unit"},
			},
			{
				ID: 4, Name: "Harbor View Complex", Address: "321 Harbor Dr, Manhattan Beach, CA 90266",
				Rent: 2800, Bedrooms: 3, Bathrooms: 2, Sqft: 1350, Available: "Available Now",
				Features: []string{"Family-friendly", "Pool", "Close to transit", "Gym"},
			},
			{
				ID: 5, Name: "Oak Tree Residences", Address: "555 Oak Street, Pasadena, CA 91101",
				Rent: 2200, Bedrooms: 2, Bathrooms: 1.5, Sqft: 950, Available: "Feb 15, 2026",
				Features: []string{"Updated kitchen", "Hardwood floors", "Near parks", "Bike storage"},
			},
			{
				ID: 6, Name: "Riverside Gardens", Address: "888 River Rd, Glendale, CA 91204",
				Rent: 2600, Bedrooms: 3, Bathrooms: 2.5, Sqft: 1450, Available: "Available Now",
				Features: []string{"Balcony", "Central AC", "Dishwasher", "Walking distance to schools"},
			},
		},
		Schools: []School{
			{
				ID: 1, Name: "Pacific Elementary School", Type: "Public Elementary", Grades: "K-5",
				Address: "456 Ocean Ave, Santa Monica, CA 90401", Distance: "3.2 miles", Rating: 4.5,
				Enrollment: "Open - Expedited Process", Phone: "(555) 234-5678", Email: "info@pacific-elem.edu",
				Students:           450,
				Features:           []string{"Trauma counseling", "ESL support", "Free lunch program", "After-school care"},
				AcceptingDisplaced: true,
				DocumentsRequired:  []string{"Proof of residence", "Previous school records (if available)", "Immunization records"},
				StartDate:          "Immediate enrollment available",
			},
			{
				ID: 2, Name: "Lincoln Middle School", Type: "Public Middle School", Grades: "6-8",
				Address: "789 Lincoln Blvd, Venice, CA 90291", Distance: "5.1 miles", Rating: 4.2,
				Enrollment: "Open", Phone: "(555) 345-6789", Email: "admin@lincoln-ms.edu",
				Students:           680,
				Features:           []string{"Special education services", "Sports programs", "Band & arts", "Counseling services"},
				AcceptingDisplaced: true,
				DocumentsRequired:  []string{"Birth certificate", "Proof of address", "Transcript (flexible requirement)"},
				StartDate:          "Rolling admissions",
			},
			{
				ID: 3, Name: "Washington High School", Type: "Public High School", Grades: "9-12",
				Address: "321 Washington St, Los Angeles, CA 90015", Distance: "6.8 miles", Rating: 4.7,
				Enrollment: "Open - Priority for Fire Victims", Phone: "(555) 456-7890", Email: "office@washington-hs.edu",
				Students:           1200,
				Features:           []string{"AP courses", "College counseling", "Mental health support", "Career center"},
				AcceptingDisplaced: true,
				DocumentsRequired:  []string{"ID/Birth certificate", "Proof of residency", "Transcripts (can be obtained later)"},
				StartDate:          "Enrollment within 48 hours",
			},
			{
				ID: 4, Name: "Bright Futures Academy", Type: "Charter Elementary", Grades: "K-6",
				Address: "555 Hope Street, Culver City, CA 90232", Distance: "4.5 miles", Rating: 4.6,
				Enrollment: "Application Required", Phone: "(555) 567-8901", Email: "admissions@brightfutures.org",
				Students:           320,
				Features:           []string{"Small class sizes", "STEM focus", "Bilingual programs", "Extended day options"},
				AcceptingDisplaced: true,
				DocumentsRequired:  []string{"Application form", "Parent interview", "Proof of address"},
				StartDate:          "Next session: Feb 1, 2026",
			},
			{
				ID: 5, Name: "Riverside Prep", Type: "Private Middle/High School", Grades: "6-12",
				Address: "888 River Road, Pasadena, CA 91101", Distance: "12.3 miles", Rating: 4.8,
				Enrollment: "Scholarship Available for Fire Victims", Phone: "(555) 678-9012", Email: "admissions@riversideprep.edu",
				Students:           450,
				Features:           []string{"Tuition assistance", "1:10 teacher ratio", "College prep", "Mental health services"},
				AcceptingDisplaced: true,
				DocumentsRequired:  []string{"Application", "Financial aid form", "Previous transcripts", "Interview"},
				StartDate:          "Mid-year enrollment available",
			},
			{
				ID: 6, Name: "Meadowbrook Elementary", Type: "Public Elementary", Grades: "K-5",
				Address: "234 Meadow Lane, Glendale, CA 91201", Distance: "8.9 miles", Rating: 4.3,
				Enrollment: "Open", Phone: "(555) 789-0123", Email: "contact@meadowbrook.edu",
				Students:           520,
				Features:           []string{"Music program", "Art classes", "Library services", "Parent involvement"},
				AcceptingDisplaced: true,
				DocumentsRequired:  []string{"Proof of residence", "Health records", "Emergency contacts"},
				StartDate:          "Immediate placement possible",
			},
		},
		EnrollmentSteps: []EnrollmentStep{
			{Step: 1, Title: "Contact School", Description: "Call or email to inform them of your situation"},
			{Step: 2, Title: "Gather Documents", Description: "Most schools are flexible with documentation for fire victims"},
			{Step: 3, Title: "Schedule Visit", Description: "Tour the school and meet with counselors"},
			{Step: 4, Title: "Complete Enrollment", Description: "Fill out forms and discuss your child's needs"},
		},
		SchoolResources: []SupportResource{
			{Title: "School Supplies Assistance", Description: "Free backpacks, supplies, and uniforms for displaced students", Contact: "1-800-SUPPLIES"},
			{Title: "Transportation Help", Description: "Bus passes and temporary transportation solutions", Contact: "(555) TRANSIT"},
			{Title: "Tutoring & Academic Support", Description: "Free tutoring services to help with transition", Contact: "support@edhelp.org"},
		},
		JobSearch: []EmploymentResource{
			{
				Title:       "Immediate Job Search",
				Description: "Connect with local workforce centers and online job boards focused on disaster-affected workers.",
				Links: []string{
					"State workforce agency job portal",
					"Local workforce development board",
					"National job boards with remote filters enabled",
				},
			},
			{
				Title:       "Income Bridge Programs",
				Description: "Explore unemployment insurance, disaster unemployment assistance, and short-term grant programs.",
				Links: []string{
					"Disaster Unemployment Assistance (DUA)",
					"State unemployment insurance office",
					"Local nonprofit emergency cash assistance",
				},
			},
		},
		Retraining: []EmploymentResource{
			{
				Title:       "Short-Term Retraining",
				Description: "Programs that help you learn new skills in weeks to months, often with tuition assistance for disaster survivors.",
				Links: []string{
					"Community college certificate programs",
					"Online bootcamps with scholarships",
					"State-funded rapid retraining initiatives",
				},
			},
			{
				Title:       "Interview & Resume Support",
				Description: "Free coaching for updating your resume, practicing interviews, and explaining wildfire-related gaps.",
				Links: []string{
					"Workforce center resume workshop",
					"Nonprofit career coaching",
					"Online resume and interview prep tools",
				},
			},
		},
		Accommodations: []EmploymentResource{
			{
				Title:       "Workplace Flexibility & Accommodations",
				Description: "Guidance on requesting remote work, flexible hours, or temporary reassignment due to caregiving or health constraints.",
				Bullets: []string{
					"Document your needs (health notes, caregiving schedule, evacuation orders).",
					"Ask about temporary remote work, flexible shifts, or alternate worksites.",
					"If applicable, reference ADA / state disability rights when requesting accommodations.",
				},
			},
			{
				Title:       "Caregiver Pressure",
				Description: "Strategies to talk with employers about flexible schedules, job sharing, or temporary leave when caring for family.",
				Bullets: []string{
					"Clarify what hours you are realistically available.",
					"Ask about temporary schedule changes or part-time options.",
					"Explore job-protected leave options if available in your region.",
				},
			},
		},
		ClaimNextSteps: map[string][]string{
			"Not filed": {
				"Contact your insurance company's claims line as soon as possible",
				"Photograph and list damaged property before any cleanup",
				"Ask about advance payments for additional living expenses",
			},
			"Filed – pending": {
				"Record your claim number and adjuster contact information",
				"Expect initial assignment within 5-10 business days of filing",
				"Keep every receipt for temporary housing and essentials",
			},
			"Approved": {
				"Review the settlement against your own damage inventory",
				"Simple claims typically pay out 2-4 weeks after approval",
				"Submit additional living expense claims in monthly batches",
			},
			"Denied": {
				"Request the denial in writing with the specific policy language",
				"File an appeal; many denials are overturned with documentation",
				"Contact your state insurance commissioner if the appeal stalls",
			},
			"Don't know": {
				"Call your insurance company to confirm whether a claim exists",
				"Ask your agent for a copy of your policy declaration page",
			},
			"uninsured": {
				"Apply for FEMA Individual Assistance at disasterassistance.gov",
				"Ask local nonprofits about emergency cash assistance",
				"Document all losses anyway; aid programs require records too",
			},
		},
		RecoveryTimeline: []ResourceInsight{
			{
				Label: "Estimated Return Home Date", Value: "March 15 - April 30, 2026",
				Description: "Based on infrastructure rebuilding timelines in your area",
			},
			{
				Label: "Neighborhood Access", Value: "Limited - Escorted visits only",
				Description: "Safety inspections in progress, full access expected in 4-6 weeks",
			},
			{
				Label: "Rebuilding Permit Status", Value: "Applications opening February 1",
				Description: "Expedited processing available for fire-affected properties",
			},
		},
		ImpactAssessment: []ResourceInsight{
			{
				Label: "Area Fire Severity", Value: "High Impact Zone",
				Description: "87% of structures affected in your neighborhood",
			},
			{
				Label: "Historical Fire Risk", Value: "Elevated",
				Description: "3 major fires in the past 15 years within 5-mile radius",
			},
			{
				Label: "Recovery Progress", Value: "23% Complete",
				Description: "Utilities: Partial | Roads: 60% | Services: Limited",
			},
		},
		FinancialInsights: []ResourceInsight{
			{
				Label: "Average Insurance Payout Timeline", Value: "4-6 months",
				Description: "For similar wildfire claims in California (2023-2024 data)",
			},
			{
				Label: "FEMA Assistance Average", Value: "$8,500 - $15,000",
				Description: "Temporary housing and immediate needs assistance",
			},
			{
				Label: "Rebuilding Cost Estimate", Value: "$350-450 per sq ft",
				Description: "Current construction costs in affected regions",
			},
		},
		SchoolInsights: []ResourceInsight{
			{
				Label: "Nearby Schools Accepting Transfers", Value: "12 schools within 10 miles",
				Description: "Expedited enrollment available for displaced students",
			},
			{
				Label: "Temporary School Sites", Value: "3 locations operational",
				Description: "Portable classrooms and community center partnerships",
			},
			{
				Label: "Counseling Support", Value: "Available at all locations",
				Description: "Trauma-informed care and academic transition support",
			},
		},
		Updates: []ResourceUpdate{
			{
				Title: "Infrastructure Update",
				Body:  "Power restoration expected in Zone A by January 28. Water services testing in progress.",
			},
			{
				Title: "Community Meeting",
				Body:  "Virtual town hall scheduled for January 25 at 6 PM. Register through your local emergency services portal.",
			},
		},
		CommunityRegions: []string{"All Regions", "Palisades", "Altadena", "Malibu", "Eaton", "Other Areas"},
		CommunityPosts: []CommunityPost{
			{
				ID: 1, Author: "Sarah M.", Region: "Palisades", Posted: "2 hours ago",
				Content: "Just wanted to share that the Red Cross shelter on Main Street has been incredibly helpful. They helped me get temporary housing vouchers and connected me with a FEMA representative. Don't hesitate to reach out to them!",
				Tags:    []string{"Housing", "Resources"},
				Replies: []CommunityReply{
					{Author: "Michael T.", Posted: "1 hour ago", Content: "Thank you for this! Heading there tomorrow."},
				},
			},
			{
				ID: 2, Author: "James K.", Region: "Altadena", Posted: "5 hours ago",
				Content: "For parents looking for schools: Pacific Elementary is accepting displaced students with expedited enrollment. They've been very understanding about missing documents. The counselor there, Ms. Rodriguez, is amazing.",
				Tags:    []string{"Schools", "Children"},
			},
			{
				ID: 3, Author: "Linda P.", Region: "Malibu", Posted: "1 day ago",
				Content: "Important insurance tip: Take photos of EVERYTHING you can remember from your home. Even if you don't have receipts, documentation helps. My adjuster said this made a huge difference in my claim.",
				Tags:    []string{"Insurance", "Tips"},
				Replies: []CommunityReply{
					{Author: "David R.", Posted: "18 hours ago", Content: "This is great advice. Also keep all hotel and food receipts for ALE claims!"},
				},
			},
		},
	}
}
