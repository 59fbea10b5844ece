package services

type HomeownerResource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

const TrustContactEmail = "info@communitypreservationtrust.org"

func HomeownerResources() []HomeownerResource {
	return []HomeownerResource{
		{Title: "Trust Agreement", Description: "View and download your Affordable Housing Land Trust Agreement"},
		{Title: "Community Events", Description: "Stay connected with upcoming neighborhood and Trust events"},
		{Title: "Support & Resources", Description: "Access homeownership resources and financial literacy programs"},
		{Title: "Homeowner Network", Description: "Connect with other Trust homeowners in your community"},
	}
}
