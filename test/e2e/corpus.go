// Package e2e runs the full pipeline against a composed document with many
// distinct sections, checking that questions surface context from the right
// section and come back answered.
package e2e

import (
	"fmt"
	"strings"
)

// Section is one topical passage of the composed test document. Signature is
// a phrase that appears only in this section, so retrieval assertions can
// pin an answer to its source.
type Section struct {
	Title     string
	Signature string
	Body      string
}

// QuestionCase is a question plus the signature phrase that must appear in
// the retrieved context.
type QuestionCase struct {
	Question          string
	ExpectedSignature string
	Description       string
}

// Corpus holds the composed document sections and question cases.
type Corpus struct {
	Sections       []Section
	Cases          []QuestionCase
	TotalSections  int
	TotalQuestions int
}

// BuildCorpus returns a site operations manual broken into sections with
// unique signature phrases, and questions that target individual sections.
func BuildCorpus() *Corpus {
	sections := buildSections()
	cases := buildQuestionCases(sections)
	return &Corpus{
		Sections:       sections,
		Cases:          cases,
		TotalSections:  len(sections),
		TotalQuestions: len(cases),
	}
}

// DocumentText renders the sections as one document, title lines followed by
// body paragraphs.
func (c *Corpus) DocumentText() string {
	var b strings.Builder
	b.WriteString("SITE OPERATIONS MANUAL\n\n")
	for _, s := range c.Sections {
		b.WriteString(s.Title)
		b.WriteString("\n")
		b.WriteString(s.Body)
		b.WriteString("\n\n")
	}
	return b.String()
}

func buildSections() []Section {
	// Each body repeats its signature phrase so the phrase survives
	// chunk-boundary placement intact in at least one chunk.
	raw := []struct {
		title     string
		signature string
		body      string
	}{
		{"1. Emergency Shutoff", "emergency shutoff valve",
			"The emergency shutoff valve is mounted behind the red access panel in the pump house. Turning the emergency shutoff valve clockwise stops all water flow within ten seconds."},
		{"2. Backup Generator", "diesel backup generator",
			"The diesel backup generator sits in the north annex and starts automatically after a mains failure. The diesel backup generator holds fuel for roughly eighteen hours at full load."},
		{"3. Fire Suppression", "argonite fire suppression",
			"Server rooms use an argonite fire suppression system instead of water sprinklers. The argonite fire suppression bottles are inspected every March and September."},
		{"4. Cooling Plant", "chilled water cooling loop",
			"The chilled water cooling loop serves all equipment rooms on floors one through three. Supply temperature for the chilled water cooling loop is held at seven degrees."},
		{"5. Access Badges", "proximity badge reader",
			"Every exterior door has a proximity badge reader logging entries to the security office. A failed proximity badge reader must be reported before the end of the shift."},
		{"6. Network Core", "core network switch stack",
			"The core network switch stack occupies racks eleven and twelve in the main equipment room. Firmware on the core network switch stack is upgraded during the January window."},
		{"7. Water Treatment", "reverse osmosis treatment unit",
			"Make-up water passes through the reverse osmosis treatment unit before entering the loop. Filters in the reverse osmosis treatment unit are replaced every six weeks."},
		{"8. Loading Dock", "hydraulic dock leveler",
			"The hydraulic dock leveler accepts trucks up to twenty tonnes. Operators must certify annually before using the hydraulic dock leveler."},
		{"9. Fuel Storage", "underground fuel tank",
			"The underground fuel tank stores nine thousand litres of diesel for the generator. Level sensors on the underground fuel tank alarm below twenty percent."},
		{"10. Roof Access", "roof access hatch",
			"The roof access hatch is reached from the stairwell on level four. Two-person rule applies whenever the roof access hatch is open."},
		{"11. UPS Room", "battery string cabinets",
			"The battery string cabinets bridge the gap until the generator picks up the load. Each of the battery string cabinets is load-tested quarterly."},
		{"12. Mailroom", "package screening scanner",
			"All inbound parcels pass through the package screening scanner before internal delivery. Items flagged by the package screening scanner are held in the secure cage."},
		{"13. Parking", "visitor parking permits",
			"Visitor parking permits are issued at the front desk and expire at midnight. Vehicles without visitor parking permits are towed at the owner's expense."},
		{"14. Waste Handling", "compactor service contract",
			"The compactor service contract covers weekly pickup and emergency calls. Renewal of the compactor service contract falls due each July."},
		{"15. Air Handling", "rooftop air handling units",
			"Four rooftop air handling units exchange air for the office floors. Belts on the rooftop air handling units are inspected monthly."},
		{"16. Key Control", "master key cabinet",
			"The master key cabinet lives in the security office behind a combination lock. Signing keys out of the master key cabinet requires supervisor approval."},
		{"17. Elevator", "freight elevator capacity",
			"The freight elevator capacity is rated at three thousand kilograms. Loads near the freight elevator capacity limit need a banksman on each floor."},
		{"18. Lighting", "exterior floodlight circuit",
			"The exterior floodlight circuit switches on a photocell and a seven day timer. Lamps on the exterior floodlight circuit are replaced in pairs."},
		{"19. Plumbing Risers", "domestic water riser",
			"Each wing has a domestic water riser with isolation valves at every floor. The domestic water riser drains down through the valve pit in the basement."},
		{"20. Spill Response", "chemical spill kit",
			"A chemical spill kit hangs beside every plant room door. Used absorbents from a chemical spill kit go into the yellow disposal drums."},
		{"21. Comms Room", "fiber patch panel",
			"The fiber patch panel in the comms room terminates all external circuits. Changes to the fiber patch panel are recorded in the cabling register."},
		{"22. CCTV", "camera retention period",
			"The camera retention period for recorded footage is ninety days. Extending the camera retention period needs written approval from legal."},
		{"23. Permits", "hot work permit",
			"Any welding or grinding needs a hot work permit signed by the duty engineer. A hot work permit expires at the end of the shift it was issued in."},
		{"24. Gas Detection", "carbon monoxide detectors",
			"Carbon monoxide detectors cover the garage and the boiler room. The carbon monoxide detectors self-test nightly and report to the panel in reception."},
		{"25. Snow Plan", "snow clearance contractor",
			"The snow clearance contractor is on call from November to March. Priority routes for the snow clearance contractor are the ambulance bay and the dock ramp."},
		{"26. Server Spares", "spare drive locker",
			"The spare drive locker in the build room holds replacement disks and optics. Withdrawals from the spare drive locker are logged against the asset register."},
		{"27. Cafeteria", "grease trap cleaning",
			"Grease trap cleaning for the kitchen happens on the first Monday of each month. Records of grease trap cleaning stay on file for three years."},
		{"28. Window Washing", "facade cradle system",
			"The facade cradle system runs on rails around the roof perimeter. Only the contracted crew may operate the facade cradle system."},
		{"29. First Aid", "defibrillator wall cabinets",
			"Defibrillator wall cabinets are located at reception and outside the gym. Opening one of the defibrillator wall cabinets sounds a local alarm."},
		{"30. Pest Control", "bait station map",
			"The bait station map shows forty numbered stations around the perimeter fence. Technicians update the bait station map after every visit."},
		{"31. Compressed Air", "workshop air compressor",
			"The workshop air compressor feeds the pneumatic tools in the maintenance bay. Condensate from the workshop air compressor drains through an oil separator."},
		{"32. Signage", "photoluminescent exit signs",
			"Photoluminescent exit signs mark every escape route and stair landing. The photoluminescent exit signs are checked during the quarterly blackout drill."},
		{"33. Landscaping", "irrigation controller schedule",
			"The irrigation controller schedule waters the south lawns before dawn. Rain sensors override the irrigation controller schedule automatically."},
		{"34. Archive", "records retention vault",
			"The records retention vault in the basement is rated for four hours of fire. Humidity in the records retention vault is kept below forty percent."},
		{"35. Bicycle Store", "bicycle cage fobs",
			"Bicycle cage fobs are programmed by the security office on request. Lost bicycle cage fobs incur a replacement charge."},
		{"36. Training", "confined space training",
			"Confined space training is mandatory before entering tanks, pits, or ducts. Refresher confined space training runs every two years."},
	}

	out := make([]Section, len(raw))
	for i, r := range raw {
		out[i] = Section{Title: r.title, Signature: r.signature, Body: r.body}
	}
	return out
}

func buildQuestionCases(sections []Section) []QuestionCase {
	questions := map[string]string{
		"emergency shutoff valve":        "Where is the emergency shutoff valve and how do I close it?",
		"diesel backup generator":        "How long can the diesel backup generator run at full load?",
		"argonite fire suppression":      "What fire suppression protects the server rooms?",
		"chilled water cooling loop":     "What temperature does the chilled water cooling loop run at?",
		"proximity badge reader":         "What should I do about a failed proximity badge reader?",
		"core network switch stack":      "Which racks hold the core network switch stack?",
		"underground fuel tank":          "How much diesel does the underground fuel tank store?",
		"battery string cabinets":        "How often are the battery string cabinets load-tested?",
		"freight elevator capacity":      "What is the freight elevator capacity?",
		"hot work permit":                "Who signs a hot work permit for welding?",
		"camera retention period":        "How long is the camera retention period for CCTV footage?",
		"carbon monoxide detectors":      "Where are the carbon monoxide detectors installed?",
		"defibrillator wall cabinets":    "Where are the defibrillator wall cabinets?",
		"records retention vault":        "What fire rating does the records retention vault have?",
		"confined space training":        "How often does confined space training need refreshing?",
		"reverse osmosis treatment unit": "How often are filters in the reverse osmosis treatment unit replaced?",
	}

	var cases []QuestionCase
	for _, s := range sections {
		q, ok := questions[s.Signature]
		if !ok {
			continue
		}
		cases = append(cases, QuestionCase{
			Question:          q,
			ExpectedSignature: s.Signature,
			Description:       fmt.Sprintf("question about %q", s.Signature),
		})
	}
	return cases
}

// sectionBySignature returns the section carrying the given signature phrase.
func sectionBySignature(sections []Section, signature string) (Section, bool) {
	for _, s := range sections {
		if s.Signature == signature {
			return s, true
		}
	}
	return Section{}, false
}
