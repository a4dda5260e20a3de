package member

// FamilyMember профиль участника семьи. TokenKey определяет, от чьего имени идут запросы
type FamilyMember struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	Color     string `json:"color,omitempty"`
	TextColor string `json:"text_color,omitempty"`
	TokenKey  string `json:"token_key,omitempty"`
	DailyGoal int    `json:"daily_goal,omitempty"`
}

// Credentials учетные данные, которыми подписывается конкретный запрос
type Credentials struct {
	AccountToken string
	MemberToken  string
	MemberID     int
}

type palette struct {
	Color     string
	TextColor string
}

var palettes = []palette{
	{Color: "#FDE68A", TextColor: "#92400E"},
	{Color: "#BFDBFE", TextColor: "#1E3A8A"},
	{Color: "#BBF7D0", TextColor: "#14532D"},
	{Color: "#FBCFE8", TextColor: "#831843"},
	{Color: "#DDD6FE", TextColor: "#4C1D95"},
}

type AddRequest struct {
	FirstName string `json:"first_name" maxLength:"50"`
}

type ListResponse struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Data   []FamilyMember `json:"data"`
}

type AddResponse struct {
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Data   *FamilyMember `json:"data,omitempty"`
}
