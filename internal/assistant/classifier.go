package assistant

import "strings"

// Category labels a classification outcome.
type Category string

const (
	CategoryLogin        Category = "login"
	CategoryApplication  Category = "application"
	CategoryInterview    Category = "interview"
	CategoryCV           Category = "cv"
	CategoryNotification Category = "notification"
	CategoryProfile      Category = "profile"
	CategoryEscalate     Category = "escalate"
	CategoryJob          Category = "job"
	CategorySchedule     Category = "schedule"
	CategorySkills       Category = "skills"
	CategoryEmployer     Category = "employer"
	CategoryFallback     Category = "fallback"
)

// Reply is the classifier outcome for one user message. Escalate signals the
// caller to move the conversation into escalation mode; applying that
// transition is the caller's job.
type Reply struct {
	Category Category
	Text     string
	Escalate bool
}

type rule struct {
	category Category
	keywords []string
	reply    string
}

// rules are evaluated top to bottom; the first rule with any keyword
// contained in the lowercased input wins. Overlaps between keyword sets are
// resolved by this order alone.
var rules = []rule{
	{CategoryLogin, []string{"login", "sign in"},
		"To sign in, use the Login button on the portal home page. Students and employers each have their own login; if your password is not accepted, use the reset link on the login screen."},
	{CategoryApplication, []string{"application", "submit"},
		"You can track your applications under Dashboard > My Applications. To submit a new application, open the job listing and press Apply; the status updates as the employer reviews it."},
	{CategoryInterview, []string{"interview", "video"},
		"Interview invitations show up on your dashboard and by email. Video interviews run in the browser; check your camera and microphone on the interview page a few minutes before the slot."},
	{CategoryCV, []string{"cv", "resume", "upload"},
		"Your CV lives under Profile > Documents. Upload a PDF up to 5 MB; the newest upload replaces the previous one and is attached to future applications automatically."},
	{CategoryNotification, []string{"notification", "email"},
		"Notifications appear under the bell icon and are also sent to your registered email. You can mark them read from the notifications panel."},
	{CategoryProfile, []string{"profile", "update"},
		"You can update your personal details, skills and visibility under Profile > Edit. Changes are visible to employers as soon as you save."},
	{CategoryEscalate, []string{"escalate", "ticket", "admin", "help", "problem"},
		"I can raise a support ticket for the admin team. Please provide a short subject and a description of the problem and I will file it for you."},
	{CategoryJob, []string{"job", "apply"},
		"Browse open positions under Jobs. Filters for location, type and salary are in the sidebar; press Apply on a listing to start an application."},
	{CategorySchedule, []string{"schedule"},
		"Your schedule of upcoming interviews and deadlines is under Dashboard > Schedule. Employers can propose alternative slots from the same view."},
	{CategorySkills, []string{"skills", "challenge"},
		"Skill challenges are under Dashboard > Skills. Completing a challenge adds a verified badge to your profile that employers can see."},
	{CategoryEmployer, []string{"employer", "post"},
		"Employers can post new job listings under Employer Dashboard > Post a Job and review incoming candidates under Candidates."},
}

// fallbackReply is returned verbatim when no keyword matches.
const fallbackReply = "I'm not sure I can help with that. Try asking me about logging in, applications, interviews, CV uploads, notifications, your profile, jobs, schedules, skill challenges, or say \"help\" to reach the admin team."

// Classify maps free-text input to a canned reply. It is a pure function:
// same input, same reply, no side effects.
func Classify(text string) Reply {
	lowered := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return Reply{
					Category: r.category,
					Text:     r.reply,
					Escalate: r.category == CategoryEscalate,
				}
			}
		}
	}
	return Reply{Category: CategoryFallback, Text: fallbackReply}
}

// Greeting opens a fresh session.
const Greeting = "Hi! I'm the portal assistant. Ask me about jobs, applications, interviews or your profile - or say \"help\" if you need the admin team."
