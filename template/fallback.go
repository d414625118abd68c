package template

// Fallback is the built-in template used whenever the configured one cannot
// be loaded. It always contains every required placeholder.
const Fallback Template = `You are an expert in market validation for startups, specifically in the Qatari and Gulf region markets.

The user has a business: '{business_desc}'
Relevant specifications: {specs}

{framework_summary}

Generate a list of 10 potential corporate customers, partners, or investors for market validation.
For each entity, provide:
1. **Name**: Real company, corporate venture arm, or investment entity
2. **Tier**: 1 (Strategic), 2 (Value-Add), or 3 (Angel/Investor)
3. **Fit**: Specific reasons why this entity would be interested
4. **Outreach Subject**: Professional, attention-grabbing subject line
5. **Message Hook**: First 1-2 sentences to open dialogue

Output in a clean markdown table format with clear columns.

Prioritize entities with active innovation programs or startup engagement history.`
