package scrape_test

import (
	"github.com/jpdehyl/BSA-demo/internal/browser/browsertest"
	"github.com/jpdehyl/BSA-demo/internal/scrape"
)

const (
	acmeHome     = "https://acme.example/"
	acmeProfile  = "https://www.linkedin.com/in/dana-smith/"
	acmeCompany  = "https://www.linkedin.com/company/acme-robotics/"
	acmeCompanyN = "Acme Robotics"
)

var acmeJobsSearch = scrape.JobsSearchURL(acmeCompanyN)

func acmeSite() browsertest.Site {
	return browsertest.Site{
		acmeHome: `<html><head><title>Acme Robotics</title>
<meta name="description" content="Industrial robots for small factories.">
<script src="https://cdn.shopify.com/s/app.js"></script></head>
<body>
<div class="hero"><h1>Automate everything</h1><a class="cta" href="/demo">Book a demo</a></div>
<nav><a href="/about">About us</a><a href="/products">Products</a></nav>
<footer>
<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
<a href="https://box.com/acme">Box</a>
<a href="https://x.com/acme">X</a>
<p>Contact sales@acme.example or call (555) 123-4567</p>
<script>var tracker = "hidden@tracker.example";</script>
</footer>
</body></html>`,

		"https://acme.example/about": `<html><body>
<section class="mission"><p>We build robots that help factories.</p></section>
<div class="values"><ul><li>Safety</li><li>Craft</li></ul></div>
<div class="team">
  <div class="member"><h3>Jane Roe</h3><p>CEO</p></div>
  <div class="member"><h3>John Doe</h3><p>CTO</p></div>
</div>
</body></html>`,

		"https://acme.example/products": `<html><body>
<div class="product"><h3>Arm X1</h3><p>Six-axis arm.</p></div>
<div class="product"><h3>Cart</h3></div>
</body></html>`,

		acmeProfile: `<html><body>
<div class="pv-top-card"><div class="pv-text-details__left-panel">
  <h1>Dana Smith</h1>
  <div class="text-body-medium">VP Engineering at Acme</div>
  <span class="text-body-small">Austin, Texas</span>
  <span class="t-bold">500+</span>
</div></div>
<div class="pv-shared-text-with-see-more">Builder of teams.</div>
<ul>
  <li class="pvs-list__item--line-separated">
    <span class="t-bold"><span aria-hidden="true">VP Engineering</span></span>
    <span class="t-normal"><span aria-hidden="true">Acme</span></span>
    <span class="pvs-entity__caption-wrapper">2021 - Present</span>
  </li>
  <li class="pvs-list__item--line-separated">
    <span class="t-bold"><span aria-hidden="true">Engineer</span></span>
    <span class="t-normal"><span aria-hidden="true">Globex</span></span>
  </li>
</ul>
<div id="education"></div>
<div class="pvs-list"><div class="pvs-entity">
  <span class="t-bold"><span aria-hidden="true">MIT</span></span>
  <span class="t-normal"><span aria-hidden="true">BS Mechanical Engineering</span></span>
</div></div>
<span class="pv-skill-entity__skill-name">Go</span>
<span class="pv-skill-entity__skill-name">Kubernetes</span>
</body></html>`,

		acmeCompany: `<html><body>
<div class="org-top-card">
  <h1 class="org-top-card-summary__title">Acme Robotics</h1>
  <p class="org-top-card-summary__tagline">Robots for everyone</p>
  <div class="org-top-card-summary-info-list__info-item">201-500 employees</div>
  <div class="org-top-card-primary-actions__inner"><a href="https://acme.example">Visit website</a></div>
</div>
<p class="org-about-us-organization-description__text">We make robots.</p>
<span class="org-page-details__definition-term">Industry</span>
<span class="org-page-details__definition-text">Automation</span>
<span class="org-page-details__definition-term">Founded</span>
<span class="org-page-details__definition-text">1999</span>
<dl>
  <dt>Company size</dt><dd>201-500 employees</dd>
  <dt>Industry</dt><dd>Industrial Automation</dd>
  <dt>Specialties</dt><dd>robotics, automation; vision</dd>
</dl>
<h4 class="org-jobs-job-search-form-module__headline">1,234 open jobs</h4>
<div class="org-update-card">
  <div class="feed-shared-text">New plant opening in Ohio</div>
  <span class="feed-shared-actor__sub-description">2d</span>
</div>
</body></html>`,

		acmeJobsSearch: `<html><body>
<ul class="jobs-search-results-list">
  <li class="jobs-search-results__list-item"><div class="job-card-container">
    <a class="job-card-container__link">Senior Software Engineer</a>
    <span class="job-card-container__metadata-item">Austin, TX</span>
    <time>1 week ago</time>
  </div></li>
  <li class="jobs-search-results__list-item"><div class="job-card-container">
    <a class="job-card-container__link">Account Executive - Digital Transformation</a>
  </div></li>
  <li class="jobs-search-results__list-item"><div class="job-card-container">
    <a class="job-card-container__link">Production Supervisor</a>
  </div></li>
</ul>
</body></html>`,
	}
}
