package prompt

// DefaultContext returns the training context used when no context file exists.
func DefaultContext() string {
	return `Training Goals:
- Maintain general fitness
- Improve endurance
- Balance between cardio and strength training

Current Focus:
- Building aerobic base
- Injury prevention
- Consistent training routine

Preferences:
- Mix of running, cycling, and swimming
- 2-3 strength training sessions per week
- 1-2 rest/recovery days per week`
}

// planTemplate is filled with weeks, context, activities, start day,
// current date and start date.
const planTemplate = `You are an expert fitness coach and workout planner. Based on the training context and recent activities provided below, create a detailed workout plan for the next %d week(s).

TRAINING CONTEXT:
%s

RECENT ACTIVITIES (last 2-3 weeks):
%s

Please create a comprehensive workout plan that includes:

1. **Weekly Overview**: Brief summary of the training focus for each week
2. **Daily Workouts**: Detailed day-by-day plan with EXACT formatting as shown below:

For each day, use this EXACT format:
**Monday, August 5th:**
* **Morning (07:00):** [Activity Type] ([Duration] minutes, [Intensity/Zone]). [Detailed description with specific intervals, sets, reps, or zones]
* **Evening (18:00):** [Activity Type] ([Duration] minutes). [Detailed description]
* **Recovery:** [Recovery activities]

IMPORTANT FORMATTING RULES:
- Use day names with dates starting from %s
- Always include specific times in 24-hour format: "Morning (07:00)", "Evening (18:00)", "Afternoon (12:00)"
- Always include duration in minutes: "Running (75 minutes, Zone 2)"
- For intervals, specify clearly: "4 x 5-minute intervals at Zone 4"
- For strength training, include sets and reps: "3 sets of 8-12 reps"
- Use consistent activity names: Running, Cycling, Swimming, Open Water Swim, Pool Swim, Indoor Cycling, Strength Training, Yoga

3. **Training Principles**:
   - Consider the athlete's recent training load and patterns
   - Ensure proper progression and recovery
   - Balance different training modalities
   - Account for any gaps or imbalances in recent training

4. **Key Recommendations**:
   - Focus areas based on recent activity analysis
   - Injury prevention tips
   - Nutrition or recovery suggestions

Format the response in clear, structured Markdown that can be easily parsed for workout upload and scheduling to Garmin Connect.

Current date: %s
Plan start date: %s

EXAMPLE FORMAT:
**Monday, August 5th:**
* **Morning (07:00):** Running (60 minutes, Zone 2). Easy base run focusing on aerobic development.
* **Evening (18:00):** Strength Training (45 minutes). Full body workout: 3 sets of squats, deadlifts, push-ups.

**Tuesday, August 6th:**
* **Morning (06:30):** Swimming (45 minutes, Zone 2-3). Pool swim with technique focus.
* **Recovery:** Light stretching and hydration.
`
