package anilist

// queryString is the fixed GraphQL document sent on every request; only
// the ids/page variables change between calls.
const queryString = `
query ($ids: [Int], $isMain: Boolean, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo {
      hasNextPage
    }
    media(id_in: $ids, isMain: $isMain) {
      id
      meanScore
      bannerImage
      coverImage {
        color
        medium
        large
        extraLarge
      }
      format
      genres
      source
      studios {
        nodes {
          id
          name
          siteUrl
        }
      }
      tags {
        id
        name
      }
      trailer {
        id
        site
        thumbnail
      }
      episodes
      season
      seasonYear
    }
  }
}
`
